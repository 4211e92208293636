package nutrition

// Sex selects the BMR coefficient set.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Profile is the validated personal input for calorie estimation.
type Profile struct {
	AgeYears           float64 `json:"ageYears"`
	WeightKg           float64 `json:"weightKg"`
	HeightCm           float64 `json:"heightCm"`
	Sex                Sex     `json:"sex"`
	ActivityMultiplier float64 `json:"activityMultiplier"`
}

// ProfileInput is the raw form payload. Weight may be given in pounds and
// height in feet/inches; ToProfile converts both to metric.
type ProfileInput struct {
	AgeYears     float64 `json:"ageYears"`
	Weight       float64 `json:"weight"`
	WeightUnit   string  `json:"weightUnit"`
	HeightCm     float64 `json:"heightCm"`
	HeightFeet   float64 `json:"heightFeet"`
	HeightInches float64 `json:"heightInches"`
	Sex          string  `json:"sex"`
	Activity     string  `json:"activity"`
	// ActivityMultiplier wins over Activity when positive.
	ActivityMultiplier float64 `json:"activityMultiplier"`
}

// Nutrient codes reported per recipe by the search provider.
const (
	NutrientCarbs   = "CHOCDF"
	NutrientProtein = "PROCNT"
	NutrientFat     = "FAT"
	NutrientFiber   = "FIBTG"
	NutrientSugar   = "SUGAR"
)

// MacroCodes lists the nutrients shown for every planned recipe, in display order.
var MacroCodes = []string{NutrientCarbs, NutrientProtein, NutrientFat, NutrientFiber, NutrientSugar}

// Activity presets keyed by the form value.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

var dietTags = map[string]string{
	"balanced": "balanced",
	"low-carb": "low-carb",
	"low-fat":  "low-fat",
}

var healthTags = map[string]string{
	"vegan":        "vegan",
	"vegetarian":   "vegetarian",
	"alcohol-free": "alcohol-free",
	"peanut-free":  "peanut-free",
}
