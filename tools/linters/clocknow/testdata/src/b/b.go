package b

type fakeTime struct{}

func (fakeTime) Now() int { return 0 }

var time fakeTime

func shadowed() {
	_ = time.Now()
}
