// Package worker provides the reference collaborator agents the pipeline
// runs against: research lookups, booking estimators, and itinerary assembly.
// All of them are deterministic and in-process — static tables stand in for
// the external travel APIs — so the full pipeline runs without network
// access. Each worker honors the uniform contract: failures become structured
// results, never panics.
package worker

// Agent names used for bus routing and metrics.
const (
	AgentWeather      = "weather"
	AgentAdvisory     = "advisory"
	AgentVisa         = "visa"
	AgentCurrency     = "currency"
	AgentFlights      = "flights"
	AgentHotels       = "hotels"
	AgentCars         = "cars"
	AgentActivities   = "activities"
	AgentItinerary    = "itinerary"
	AgentDocuments    = "documents"
	AgentOrchestrator = "orchestrator"
)

// destinationProfile is the static stand-in for the external lookups.
type destinationProfile struct {
	climate        string
	severity       string // clear, moderate, severe
	advisoryLevel  int    // 1 (normal) .. 4 (do not travel)
	advisoryNote   string
	visaFree       []string // origins that need no visa
	flightBase     float64  // per traveler
	hotelNightly   float64  // comfort tier, per night
	carDaily       float64
	activityDaily  float64 // per traveler per day
	signatureSight string
}

var destinations = map[string]destinationProfile{
	"kyoto": {
		climate:        "temperate, humid summers",
		severity:       "clear",
		advisoryLevel:  1,
		visaFree:       []string{"berlin", "paris", "london", "new york"},
		flightBase:     650,
		hotelNightly:   140,
		carDaily:       55,
		activityDaily:  40,
		signatureSight: "Fushimi Inari shrine",
	},
	"reykjavik": {
		climate:        "subarctic, volatile",
		severity:       "severe",
		advisoryLevel:  2,
		advisoryNote:   "exercise increased caution: storm season",
		visaFree:       []string{"berlin", "paris", "london"},
		flightBase:     420,
		hotelNightly:   180,
		carDaily:       90,
		activityDaily:  60,
		signatureSight: "Golden Circle",
	},
	"lima": {
		climate:        "arid coastal",
		severity:       "moderate",
		advisoryLevel:  2,
		advisoryNote:   "exercise increased caution",
		visaFree:       []string{"berlin", "madrid"},
		flightBase:     780,
		hotelNightly:   90,
		carDaily:       40,
		activityDaily:  35,
		signatureSight: "Larco Museum",
	},
	"sanaa": {
		climate:        "arid highland",
		severity:       "clear",
		advisoryLevel:  4,
		advisoryNote:   "do not travel: armed conflict",
		flightBase:     900,
		hotelNightly:   60,
		carDaily:       30,
		activityDaily:  20,
		signatureSight: "Old City",
	},
}

// defaultProfile is used for destinations missing from the table, so an
// unknown destination degrades to a plausible plan instead of a failure.
var defaultProfile = destinationProfile{
	climate:        "varied",
	severity:       "clear",
	advisoryLevel:  1,
	flightBase:     500,
	hotelNightly:   120,
	carDaily:       50,
	activityDaily:  40,
	signatureSight: "the old town",
}

func lookupDestination(name string) destinationProfile {
	if p, ok := destinations[normalize(name)]; ok {
		return p
	}
	return defaultProfile
}

func normalize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
