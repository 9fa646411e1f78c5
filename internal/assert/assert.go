package assert

// NotNil panics on a nil interface value, constructors use it on their
// required dependencies.
func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}
