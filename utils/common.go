package utils

const (
	NODETOL = 1.e-12
	// MAXCOND is the largest condition number accepted for an element
	// transform before it is treated as singular
	MAXCOND = 1.e12
)
