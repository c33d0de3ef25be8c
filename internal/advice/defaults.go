package advice

import (
	"mantelzorg-engine/internal/models"
)

// defaultEntries is the compiled-in advice table. It supplies every
// (category, level) and (task, level) key; the override store only ever
// replaces individual entries on top of it. Curated copy is Dutch, like
// the rest of the respondent-facing product.
var defaultEntries = map[string]models.AdviceEntry{
	// Total score
	"totaal.LAAG": {
		Key:    "totaal.LAAG",
		Label:  "Totale belasting: laag",
		Text:   "Uw belasting is op dit moment laag. Blijf goed voor uzelf zorgen en vul de vragenlijst over een paar maanden opnieuw in.",
		Active: true,
	},
	"totaal.GEMIDDELD": {
		Key:    "totaal.GEMIDDELD",
		Label:  "Totale belasting: gemiddeld",
		Text:   "Uw belasting is gemiddeld. Bekijk welke taken u zwaar vallen en bespreek met uw omgeving wie iets kan overnemen.",
		Active: true,
	},
	"totaal.HOOG": {
		Key:    "totaal.HOOG",
		Label:  "Totale belasting: hoog",
		Text:   "Uw belasting is hoog. Neem contact op met het steunpunt mantelzorg in uw gemeente voor een gesprek over ondersteuning.",
		Active: true,
	},

	// Energy / physical domain
	"energie.LAAG": {
		Key:    "energie.LAAG",
		Label:  "Energie: laag belast",
		Text:   "U houdt voldoende energie over. Blijf bewegen en houd uw eigen rustmomenten vast.",
		Active: true,
	},
	"energie.GEMIDDELD": {
		Key:    "energie.GEMIDDELD",
		Label:  "Energie: gemiddeld belast",
		Text:   "De zorg kost u merkbaar energie. Plan vaste rustmomenten in en vraag hulp bij lichamelijk zware taken.",
		Active: true,
	},
	"energie.HOOG": {
		Key:    "energie.HOOG",
		Label:  "Energie: zwaar belast",
		Text:   "De zorg put u lichamelijk uit. Bespreek lichamelijke klachten met uw huisarts en overweeg respijtzorg.",
		Active: true,
	},

	// Emotional domain
	"emotie.LAAG": {
		Key:    "emotie.LAAG",
		Label:  "Emotioneel: laag belast",
		Text:   "U voelt zich emotioneel in balans. Blijf praten over wat de zorg met u doet.",
		Active: true,
	},
	"emotie.GEMIDDELD": {
		Key:    "emotie.GEMIDDELD",
		Label:  "Emotioneel: gemiddeld belast",
		Text:   "De zorg raakt u emotioneel. Een gesprek met een mantelzorgconsulent of lotgenotengroep kan lucht geven.",
		Active: true,
	},
	"emotie.HOOG": {
		Key:    "emotie.HOOG",
		Label:  "Emotioneel: zwaar belast",
		Text:   "U draagt emotioneel veel. Zoek op korte termijn ondersteuning, bijvoorbeeld via uw huisarts of het steunpunt mantelzorg.",
		Active: true,
	},

	// Time pressure domain
	"tijd.LAAG": {
		Key:    "tijd.LAAG",
		Label:  "Tijdsdruk: laag",
		Text:   "U houdt voldoende tijd over voor uzelf. Houd dat zo.",
		Active: true,
	},
	"tijd.GEMIDDELD": {
		Key:    "tijd.GEMIDDELD",
		Label:  "Tijdsdruk: gemiddeld",
		Text:   "De zorg drukt op uw agenda. Kijk welke taken op een ander moment of door een ander gedaan kunnen worden.",
		Active: true,
	},
	"tijd.HOOG": {
		Key:    "tijd.HOOG",
		Label:  "Tijdsdruk: hoog",
		Text:   "De zorg kost u zoveel tijd dat er weinig overblijft voor uzelf. Informeer naar dagbesteding of vervangende zorg.",
		Active: true,
	},

	// Social contact domain
	"sociaal.LAAG": {
		Key:    "sociaal.LAAG",
		Label:  "Sociaal contact: op peil",
		Text:   "U onderhoudt uw sociale contacten goed. Dat beschermt tegen overbelasting.",
		Active: true,
	},
	"sociaal.GEMIDDELD": {
		Key:    "sociaal.GEMIDDELD",
		Label:  "Sociaal contact: onder druk",
		Text:   "De zorg gaat ten koste van uw contacten. Plan bewust momenten met familie of vrienden in.",
		Active: true,
	},
	"sociaal.HOOG": {
		Key:    "sociaal.HOOG",
		Label:  "Sociaal contact: geïsoleerd",
		Text:   "U komt nauwelijks nog aan eigen contacten toe. Bespreek met het steunpunt mantelzorg hoe u weer ruimte kunt maken.",
		Active: true,
	},

	// Task advice
	"taak.huishouden.LAAG": {
		Key:    "taak.huishouden.LAAG",
		Label:  "Huishouden",
		Text:   "Het huishouden is goed te doen. Verdeel taken waar mogelijk.",
		Active: true,
	},
	"taak.huishouden.GEMIDDELD": {
		Key:    "taak.huishouden.GEMIDDELD",
		Label:  "Huishouden",
		Text:   "Het huishouden begint zwaar te worden. Huishoudelijke hulp via de Wmo kan verlichten.",
		Active: true,
	},
	"taak.huishouden.HOOG": {
		Key:    "taak.huishouden.HOOG",
		Label:  "Huishouden",
		Text:   "Het huishouden is te zwaar naast de zorg. Vraag huishoudelijke hulp aan bij uw gemeente.",
		Active: true,
	},
	"taak.verzorging.LAAG": {
		Key:    "taak.verzorging.LAAG",
		Label:  "Persoonlijke verzorging",
		Text:   "De persoonlijke verzorging lukt goed.",
		Active: true,
	},
	"taak.verzorging.GEMIDDELD": {
		Key:    "taak.verzorging.GEMIDDELD",
		Label:  "Persoonlijke verzorging",
		Text:   "De persoonlijke verzorging wordt zwaarder. Thuiszorg kan een deel overnemen.",
		Active: true,
	},
	"taak.verzorging.HOOG": {
		Key:    "taak.verzorging.HOOG",
		Label:  "Persoonlijke verzorging",
		Text:   "De persoonlijke verzorging is te belastend. Schakel de wijkverpleging in voor een indicatie.",
		Active: true,
	},
	"taak.administratie.LAAG": {
		Key:    "taak.administratie.LAAG",
		Label:  "Administratie",
		Text:   "De administratie is op orde.",
		Active: true,
	},
	"taak.administratie.GEMIDDELD": {
		Key:    "taak.administratie.GEMIDDELD",
		Label:  "Administratie",
		Text:   "De administratie kost moeite. Een vrijwillige administratiemaatje kan meekijken.",
		Active: true,
	},
	"taak.administratie.HOOG": {
		Key:    "taak.administratie.HOOG",
		Label:  "Administratie",
		Text:   "De administratie groeit u boven het hoofd. Vraag ondersteuning via het steunpunt of een bewindvoerder.",
		Active: true,
	},
	"taak.vervoer.LAAG": {
		Key:    "taak.vervoer.LAAG",
		Label:  "Vervoer",
		Text:   "Het vervoer is goed geregeld.",
		Active: true,
	},
	"taak.vervoer.GEMIDDELD": {
		Key:    "taak.vervoer.GEMIDDELD",
		Label:  "Vervoer",
		Text:   "Het vervoer vraagt veel van u. Kijk naar Wmo-vervoer of vrijwillige chauffeurs.",
		Active: true,
	},
	"taak.vervoer.HOOG": {
		Key:    "taak.vervoer.HOOG",
		Label:  "Vervoer",
		Text:   "Het vervoer is niet meer op te brengen. Vraag een vervoersvoorziening aan bij uw gemeente.",
		Active: true,
	},
	"taak.medicatie.LAAG": {
		Key:    "taak.medicatie.LAAG",
		Label:  "Medicatie",
		Text:   "De medicatiezorg verloopt goed.",
		Active: true,
	},
	"taak.medicatie.GEMIDDELD": {
		Key:    "taak.medicatie.GEMIDDELD",
		Label:  "Medicatie",
		Text:   "De medicatiezorg vraagt aandacht. Een medicijnrol via de apotheek maakt het overzichtelijker.",
		Active: true,
	},
	"taak.medicatie.HOOG": {
		Key:    "taak.medicatie.HOOG",
		Label:  "Medicatie",
		Text:   "De medicatiezorg is te complex geworden. Laat de thuiszorg het aanreiken overnemen.",
		Active: true,
	},
}

// DefaultEntry returns the compiled-in entry for a key.
func DefaultEntry(key string) (models.AdviceEntry, bool) {
	e, ok := defaultEntries[key]
	return e, ok
}
