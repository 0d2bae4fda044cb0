package dataset

// OS values used in the os column.
const (
	OSLinux   = "linux"
	OSWindows = "windows"
	OSMac     = "mac"
)

// Fixed survey phrases for the reason column.
var (
	badReasonsMac = []string{
		"newbies",
		"dummies",
		"don't know what's doing",
		"like the apple",
		"read steve jobs book",
		"feels good using an overpriced product",
		"because people say it's good",
	}

	goodReasonsWindows = []string{
		"productivity",
		"compatibility",
		"gaming",
		"has linux",
		"has evolved since windows 10",
	}

	goodReasonsLinux = []string{
		"like to develop their own drivers",
		"security",
		"for work",
		"lightweight",
		"GUI has evolved",
		"usability is nice",
		"the Original Linux",
	}
)

// Flag vocabularies. The survey deliberately stores these as free-form
// varchar instead of booleans.
var (
	notRichValues   = []string{"no", "not at all", "just crazy", "Believe so"}
	insaneYesValues = []string{"yes", "for sure"}
	insaneNoValues  = []string{"no", "couldn't be more lucid"}
)

// Name pools. The survey skews Brazilian.
var (
	brazilianFirstNames = []string{
		"Ana", "Beatriz", "Bruno", "Camila", "Carlos", "Daniela", "Eduardo",
		"Fernanda", "Gabriel", "Gustavo", "Helena", "Isabela", "João", "Juliana",
		"Larissa", "Leonardo", "Lucas", "Luiza", "Marcos", "Mariana", "Mateus",
		"Patrícia", "Paulo", "Rafael", "Renata", "Ricardo", "Rodrigo", "Sofia",
		"Thiago", "Vinícius",
	}
	brazilianLastNames = []string{
		"Almeida", "Araújo", "Barbosa", "Carvalho", "Costa", "Dias", "Ferreira",
		"Gomes", "Lima", "Martins", "Melo", "Nascimento", "Oliveira", "Pereira",
		"Ribeiro", "Rocha", "Santos", "Silva", "Souza", "Teixeira",
	}
	globalFirstNames = []string{
		"Alice", "Andrew", "Chen", "Claire", "David", "Emma", "Hans", "Ingrid",
		"James", "Kenji", "Laura", "Liam", "Maria", "Michael", "Noah", "Olga",
		"Pierre", "Priya", "Sarah", "Yuki",
	}
	globalLastNames = []string{
		"Anderson", "Brown", "Davis", "Garcia", "Johnson", "Kim", "Kowalski",
		"Miller", "Müller", "Nguyen", "Rossi", "Sato", "Schmidt", "Smith",
		"Tanaka", "Wilson",
	}
)

// Countries used for the 20-30% of rows that are not "brazil".
var countries = []string{
	"argentina", "australia", "canada", "chile", "colombia", "france",
	"germany", "india", "italy", "japan", "mexico", "netherlands", "norway",
	"portugal", "south korea", "spain", "sweden", "united kingdom",
	"united states", "uruguay",
}

// States mixes Brazilian state names with other administrative regions,
// matching the loose typing of the original survey.
var states = []string{
	"acre", "alagoas", "amazonas", "bahia", "ceará", "distrito federal",
	"espírito santo", "goiás", "maranhão", "mato grosso", "minas gerais",
	"paraná", "pernambuco", "rio de janeiro", "rio grande do sul",
	"santa catarina", "são paulo", "tocantins",
	"california", "texas", "ontario", "bavaria", "catalonia", "lombardy",
}

// Filler word pools for templated reasons.
var (
	actionWords = []string{
		"deployments", "meetings", "compiling", "streaming", "debugging",
		"rendering", "browsing", "spreadsheets", "onboarding", "presentations",
	}
	adjectiveWords = []string{
		"aluminum", "minimal", "enterprise", "modern", "reliable", "shiny",
		"portable", "silent", "expensive", "ergonomic",
	}
	techWords = []string{
		"containers", "drivers", "kernels", "databases", "compilers",
		"terminals", "pipelines", "firmware", "networking", "virtualization",
	}
)
