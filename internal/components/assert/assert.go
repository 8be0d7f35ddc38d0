package assert

import "fmt"

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

// True panics with the formatted message when cond does not hold.
func True(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
