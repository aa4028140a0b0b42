package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/JakTech215/crm-app-sub000/tools/linters/clocknow"
)

func main() {
	singlechecker.Main(clocknow.Analyzer)
}
