package heuristics

import "github.com/spigell/jobfit/internal/textutil"

// stopwordList mixes Portuguese and English function words with the
// boilerplate that shows up in almost every job posting.
var stopwordList = []string{
	// Portuguese articles, prepositions and pronouns.
	"a", "o", "as", "os", "um", "uma", "uns", "umas", "de", "da", "do", "das", "dos",
	"em", "no", "na", "nos", "nas", "num", "numa", "para", "pra", "por", "pelo", "pela",
	"pelos", "pelas", "com", "sem", "sob", "sobre", "entre", "até", "após", "e", "ou",
	"que", "se", "ao", "aos", "à", "às", "como", "mais", "menos", "muito", "seu", "sua",
	"seus", "suas", "nosso", "nossa", "nossos", "nossas", "você", "vocês", "ele", "ela",
	"eles", "elas", "isso", "isto", "este", "esta", "estes", "estas", "esse", "essa",
	"também", "já", "não", "sim", "onde", "quando", "qual", "quais", "ser", "será",
	"são", "está", "estar", "ter", "tem", "têm", "sera", "todo", "toda", "todos", "todas",

	// Portuguese job posting boilerplate.
	"vaga", "vagas", "empresa", "empresas", "cargo", "candidato", "candidatos",
	"candidata", "requisitos", "requisito", "responsabilidades", "responsabilidade",
	"atividades", "atribuições", "benefícios", "beneficio", "diferenciais", "diferencial",
	"desejável", "desejáveis", "obrigatório", "obrigatórios", "conhecimento",
	"conhecimentos", "experiência", "experiências", "área", "time", "equipe",
	"trabalho", "trabalhar", "buscamos", "procuramos", "oportunidade", "local",
	"salário", "contratação", "regime", "modelo",

	// English articles, prepositions and pronouns.
	"the", "and", "for", "with", "you", "your", "yours", "our", "ours", "are", "will",
	"this", "that", "these", "those", "from", "have", "has", "had", "into", "onto",
	"about", "above", "below", "over", "under", "than", "then", "them", "they", "their",
	"who", "whom", "what", "which", "when", "where", "why", "how", "can", "could",
	"should", "would", "must", "may", "might", "not", "but", "all", "any", "also",
	"each", "such", "other", "more", "most", "some", "very", "its", "was",
	"were", "been", "being", "able", "well", "via", "per", "etc", "out", "off", "use",
	"using", "used", "within", "across", "through", "while",

	// English job posting boilerplate.
	"job", "jobs", "role", "roles", "team", "teams", "work", "working", "company",
	"candidate", "candidates", "position", "positions", "opportunity", "requirements",
	"requirement", "responsibilities", "responsibility", "qualifications",
	"qualification", "experience", "years", "year", "plus", "strong", "ability",
	"skills", "skill", "knowledge", "preferred", "required", "including", "join",
	"looking", "apply", "benefits", "new", "great", "good", "excellent", "help",
}

// stopwords is built once and only read afterwards.
var stopwords = buildStopwords(stopwordList)

func buildStopwords(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[textutil.Normalize(w)] = struct{}{}
	}
	return set
}

// IsStopword reports whether token (already normalized) is a stopword.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
