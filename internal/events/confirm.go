package events

import (
	"strings"

	"eggshell/pkg/shelltypes"
)

type lineConfirmer struct {
	io shelltypes.LineIO
}

// LineConfirmer asks through io. "y" and "yes" confirm; "n", "no" and an empty
// answer decline; any other answer asks again. An interrupt or the end of input
// while asking confirms.
func LineConfirmer(io shelltypes.LineIO) Confirmer {
	return lineConfirmer{io: io}
}

func (l lineConfirmer) Confirm(question string) bool {
	for {
		answer, err := l.io.ReadLine(question+" (y/n) ", nil)
		if err != nil {
			return true
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		case "n", "no", "":
			return false
		}
	}
}
