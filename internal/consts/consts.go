package consts

const (
	CHARGE    = 1.6021918e-19 // Elementary charge (C)
	BOLTZMANN = 1.3806226e-23 // Boltzmann constant (J/K)
	KELVIN    = 273.15        // 0 Celsius in Kelvin (K)
	LIGHT     = 2.99792458e8  // Speed of light in vacuum (m/s)
	ETA0      = 376.730313    // Free space wave impedance (ohm)
	ROOMTEMP  = 300.15        // Default analysis temperature, 27 Celsius (K)
)
