package a

import (
	"time"
	clock "time"
)

func bad() {
	_ = time.Now()       // want `time.Now\(\) reads the wall clock; use a calendar.Clock`
	_ = time.Now().UTC() // want `time.Now\(\) reads the wall clock; use a calendar.Clock`
}

func renamedImport() {
	_ = clock.Now() // want `time.Now\(\) reads the wall clock; use a calendar.Clock`
}

func elapsed(start, deadline time.Time) {
	_ = time.Since(start)    // want `time.Since\(\) reads the wall clock; use a calendar.Clock`
	_ = time.Until(deadline) // want `time.Until\(\) reads the wall clock; use a calendar.Clock`
}

func methodsAreFine(a, b time.Time) {
	_ = a.Sub(b)
	_ = a.Add(time.Hour).Before(b)
}

func nolintGeneral() {
	//nolint
	_ = time.Now()
}

func nolintSpecific() {
	_ = time.Now() //nolint:clocknow
}

func nolintList() {
	_ = time.Now() //nolint:gosec,clocknow // sanctioned
}

func nolintOtherLinter() {
	_ = time.Now() //nolint:otherlinter // want `time.Now\(\) reads the wall clock; use a calendar.Clock`
}
