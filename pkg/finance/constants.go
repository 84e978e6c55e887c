package finance

// IRR solver bounds.
const (
	IRRSeed          = 0.10  // Newton-Raphson starting rate
	IRRMaxIterations = 100   // per solver stage
	IRRTolerance     = 1e-6  // |NPV| at which a rate is accepted
	IRRLowerBound    = -0.99 // bisection bracket, as a fraction
	IRRUpperBound    = 10.0

	// Step for the central-difference derivative of NPV.
	irrDerivativeStep = 1e-6
	// Bisection stops once the bracket is this narrow.
	irrBracketWidth = 1e-12
)
