package inventory

// DrinkKeyPolicy define qué SKUs entran al cálculo de varianza de bebidas.
type DrinkKeyPolicy string

const (
	// DrinkKeysStart solo los SKUs presentes en el stock inicial (comportamiento histórico).
	DrinkKeysStart DrinkKeyPolicy = "start"
	// DrinkKeysUnion unión de SKUs de stock inicial, final, compras y ventas.
	DrinkKeysUnion DrinkKeyPolicy = "union"
)

// Policy constantes de negocio de los motores de varianza y anomalías.
// Se definen en un solo lugar y se inyectan desde la configuración.
type Policy struct {
	MeatGramsPerRoll int // conversión hamburguesa → carne

	RollsFlagThreshold int // |diff| > umbral levanta ROLLS_VARIANCE
	RollsHighThreshold int // |diff| > umbral severidad high

	MeatFlagThresholdGrams int
	MeatHighThresholdGrams int

	DrinkFlagThreshold int
	DrinkHighThreshold int

	RiskPerFlag int // puntos por bandera
	RiskCap     int // tope del riesgo

	DrinkKeys DrinkKeyPolicy
}

// DefaultPolicy valores vigentes en la operación.
func DefaultPolicy() Policy {
	return Policy{
		MeatGramsPerRoll:       90,
		RollsFlagThreshold:     5,
		RollsHighThreshold:     20,
		MeatFlagThresholdGrams: 500,
		MeatHighThresholdGrams: 1500,
		DrinkFlagThreshold:     3,
		DrinkHighThreshold:     10,
		RiskPerFlag:            20,
		RiskCap:                100,
		DrinkKeys:              DrinkKeysUnion,
	}
}

// ParseDrinkKeyPolicy acepta "start" o "union"; cualquier otro valor cae en union.
func ParseDrinkKeyPolicy(s string) DrinkKeyPolicy {
	if DrinkKeyPolicy(s) == DrinkKeysStart {
		return DrinkKeysStart
	}
	return DrinkKeysUnion
}
