package rules

import "github.com/shopspring/decimal"

// Labor-rate benchmarks by category, sourced from published GSA schedule
// rates. Rates are hourly, in dollars.

// LaborRateBenchmark is one benchmark row.
type LaborRateBenchmark struct {
	LaborCategory string          `json:"laborCategory"`
	MinRate       decimal.Decimal `json:"minRate"`
	MaxRate       decimal.Decimal `json:"maxRate"`
	MedianRate    decimal.Decimal `json:"medianRate"`
	AverageRate   decimal.Decimal `json:"averageRate"`
	SampleSize    int             `json:"sampleSize"`
	DataSource    string          `json:"dataSource"`
}

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var laborRateBenchmarks = map[string]LaborRateBenchmark{
	// IT labor categories
	"program_manager": {
		LaborCategory: "Program Manager",
		MinRate:       rate("125.00"),
		MaxRate:       rate("225.00"),
		MedianRate:    rate("175.00"),
		AverageRate:   rate("172.50"),
		SampleSize:    500,
		DataSource:    "GSA IT Schedule 70",
	},
	"project_manager": {
		LaborCategory: "Project Manager",
		MinRate:       rate("95.00"),
		MaxRate:       rate("175.00"),
		MedianRate:    rate("135.00"),
		AverageRate:   rate("132.00"),
		SampleSize:    800,
		DataSource:    "GSA IT Schedule 70",
	},
	"senior_engineer": {
		LaborCategory: "Senior Software Engineer",
		MinRate:       rate("110.00"),
		MaxRate:       rate("195.00"),
		MedianRate:    rate("155.00"),
		AverageRate:   rate("152.00"),
		SampleSize:    1200,
		DataSource:    "GSA IT Schedule 70",
	},
	"engineer": {
		LaborCategory: "Software Engineer",
		MinRate:       rate("75.00"),
		MaxRate:       rate("145.00"),
		MedianRate:    rate("110.00"),
		AverageRate:   rate("108.00"),
		SampleSize:    1500,
		DataSource:    "GSA IT Schedule 70",
	},
	"junior_engineer": {
		LaborCategory: "Junior Software Engineer",
		MinRate:       rate("55.00"),
		MaxRate:       rate("95.00"),
		MedianRate:    rate("72.00"),
		AverageRate:   rate("73.50"),
		SampleSize:    900,
		DataSource:    "GSA IT Schedule 70",
	},
	"senior_analyst": {
		LaborCategory: "Senior Systems Analyst",
		MinRate:       rate("95.00"),
		MaxRate:       rate("165.00"),
		MedianRate:    rate("125.00"),
		AverageRate:   rate("127.00"),
		SampleSize:    700,
		DataSource:    "GSA IT Schedule 70",
	},
	"analyst": {
		LaborCategory: "Systems Analyst",
		MinRate:       rate("65.00"),
		MaxRate:       rate("125.00"),
		MedianRate:    rate("92.00"),
		AverageRate:   rate("94.00"),
		SampleSize:    1100,
		DataSource:    "GSA IT Schedule 70",
	},
	"security_engineer": {
		LaborCategory: "Cybersecurity Engineer",
		MinRate:       rate("115.00"),
		MaxRate:       rate("210.00"),
		MedianRate:    rate("160.00"),
		AverageRate:   rate("158.00"),
		SampleSize:    450,
		DataSource:    "GSA IT Schedule 70",
	},
	"data_scientist": {
		LaborCategory: "Data Scientist",
		MinRate:       rate("105.00"),
		MaxRate:       rate("195.00"),
		MedianRate:    rate("150.00"),
		AverageRate:   rate("148.00"),
		SampleSize:    350,
		DataSource:    "GSA IT Schedule 70",
	},
	"cloud_architect": {
		LaborCategory: "Cloud Solutions Architect",
		MinRate:       rate("130.00"),
		MaxRate:       rate("235.00"),
		MedianRate:    rate("180.00"),
		AverageRate:   rate("178.00"),
		SampleSize:    280,
		DataSource:    "GSA IT Schedule 70",
	},

	// Professional services
	"consultant_senior": {
		LaborCategory: "Senior Consultant",
		MinRate:       rate("115.00"),
		MaxRate:       rate("225.00"),
		MedianRate:    rate("165.00"),
		AverageRate:   rate("162.00"),
		SampleSize:    600,
		DataSource:    "GSA PSS Schedule",
	},
	"consultant": {
		LaborCategory: "Consultant",
		MinRate:       rate("75.00"),
		MaxRate:       rate("155.00"),
		MedianRate:    rate("110.00"),
		AverageRate:   rate("112.00"),
		SampleSize:    850,
		DataSource:    "GSA PSS Schedule",
	},
	"subject_matter_expert": {
		LaborCategory: "Subject Matter Expert",
		MinRate:       rate("140.00"),
		MaxRate:       rate("285.00"),
		MedianRate:    rate("200.00"),
		AverageRate:   rate("195.00"),
		SampleSize:    400,
		DataSource:    "GSA PSS Schedule",
	},

	// Administrative
	"admin_assistant": {
		LaborCategory: "Administrative Assistant",
		MinRate:       rate("35.00"),
		MaxRate:       rate("65.00"),
		MedianRate:    rate("48.00"),
		AverageRate:   rate("49.00"),
		SampleSize:    1000,
		DataSource:    "GSA Schedule",
	},
	"executive_assistant": {
		LaborCategory: "Executive Assistant",
		MinRate:       rate("50.00"),
		MaxRate:       rate("95.00"),
		MedianRate:    rate("70.00"),
		AverageRate:   rate("71.00"),
		SampleSize:    500,
		DataSource:    "GSA Schedule",
	},
}

// LaborRate returns the benchmark row for a category key.
func LaborRate(category string) (LaborRateBenchmark, bool) {
	b, ok := laborRateBenchmarks[category]
	return b, ok
}

// LaborRates returns benchmark rows for the given category keys, skipping
// unknown keys. A nil slice returns every row.
func LaborRates(categories []string) []LaborRateBenchmark {
	if categories == nil {
		out := make([]LaborRateBenchmark, 0, len(laborRateBenchmarks))
		for _, b := range laborRateBenchmarks {
			out = append(out, b)
		}
		return out
	}
	out := make([]LaborRateBenchmark, 0, len(categories))
	for _, cat := range categories {
		if b, ok := laborRateBenchmarks[cat]; ok {
			out = append(out, b)
		}
	}
	return out
}
