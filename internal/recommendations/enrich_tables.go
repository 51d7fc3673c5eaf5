package recommendations

// NotAvailable is the neutral value used when a lookup has no data.
const NotAvailable = "non disponible"

var industryBenchmarks = map[string]string{
	"finance":     "Disponibilité cible 99,99 %, PUE moyen 1,5, plan de reprise testé annuellement",
	"banque":      "Disponibilité cible 99,99 %, PUE moyen 1,5, plan de reprise testé annuellement",
	"santé":       "Disponibilité cible 99,95 %, alimentation secourue sur 100 % des zones critiques",
	"sante":       "Disponibilité cible 99,95 %, alimentation secourue sur 100 % des zones critiques",
	"healthcare":  "Disponibilité cible 99,95 %, alimentation secourue sur 100 % des zones critiques",
	"industrie":   "Disponibilité cible 99,9 %, maintenance préventive trimestrielle",
	"industry":    "Disponibilité cible 99,9 %, maintenance préventive trimestrielle",
	"commerce":    "Disponibilité cible 99,5 %, PUE moyen 1,8",
	"retail":      "Disponibilité cible 99,5 %, PUE moyen 1,8",
	"public":      "Disponibilité cible 99,5 %, conformité RGS et hébergement souverain",
	"education":   "Disponibilité cible 99 %, PUE moyen 2,0",
	"datacenter":  "PUE cible 1,3, redondance Tier III, contrôle d'accès biométrique",
	"telecom":     "Disponibilité cible 99,999 %, redondance N+1 sur l'énergie et le froid",
	"énergie":     "Disponibilité cible 99,95 %, supervision SCADA segmentée",
	"energie":     "Disponibilité cible 99,95 %, supervision SCADA segmentée",
	"logistique":  "Disponibilité cible 99,5 %, couverture réseau sans fil complète des entrepôts",
	"technologie": "Disponibilité cible 99,95 %, PUE moyen 1,4",
}

var regulatoryFrameworks = map[string]string{
	"electrique":    "NF C 15-100, NF C 18-510",
	"électrique":    "NF C 15-100, NF C 18-510",
	"electrical":    "NF C 15-100, NF C 18-510",
	"incendie":      "APSAD R7, APSAD R4, règlement ERP",
	"fire":          "APSAD R7, APSAD R4, règlement ERP",
	"informatique":  "ISO/IEC 27001, RGPD",
	"it":            "ISO/IEC 27001, RGPD",
	"reseau":        "ISO/IEC 27001, NF EN 50173",
	"réseau":        "ISO/IEC 27001, NF EN 50173",
	"network":       "ISO/IEC 27001, NF EN 50173",
	"datacenter":    "EN 50600, ISO/IEC 22237",
	"energie":       "ISO 50001, décret tertiaire",
	"énergie":       "ISO 50001, décret tertiaire",
	"energy":        "ISO 50001, décret tertiaire",
	"climatisation": "F-Gas (UE 517/2014), EN 378",
	"securite":      "NF EN 50131, RGPD vidéoprotection",
	"sécurité":      "NF EN 50131, RGPD vidéoprotection",
	"security":      "NF EN 50131, RGPD vidéoprotection",
}

type costRange struct {
	Low  float64
	High float64
}

var costByDifficulty = map[Difficulty]costRange{
	DifficultyEasy:     {Low: 500, High: 5000},
	DifficultyModerate: {Low: 5000, High: 25000},
	DifficultyComplex:  {Low: 25000, High: 150000},
}

var sizeMultipliers = map[string]float64{
	"tpe":    0.5,
	"small":  0.5,
	"pme":    1,
	"medium": 1,
	"eti":    2,
	"large":  3,
	"ge":     3,
}

var difficultyFactors = map[Difficulty]float64{
	DifficultyEasy:     1,
	DifficultyModerate: 2,
	DifficultyComplex:  3,
}
