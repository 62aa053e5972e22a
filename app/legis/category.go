package legis

// Category is the processing category assigned to an initiative.
type Category string

const (
	CategoryOrdinary        Category = "ordinary"
	CategoryUrgent          Category = "urgent"
	CategorySpecialMajority Category = "special_majority"
	CategoryAutonomous      Category = "autonomous_community"
	CategoryPopular         Category = "popular_initiative"
	CategoryInstitutional   Category = "constitutional_body"
	CategoryApprovedLaw     Category = "approved_law"
)

// categoryFields is the normalized view of the fields the category rules
// inspect.
type categoryFields struct {
	typ     string
	mode    string
	author  string
	subject string
	hasLaw  bool // a law-number field is present on the record
}

// categoryRule pairs a predicate with the category it assigns. Rules are
// evaluated in order and the first match wins: the bill-form rules come first
// so that an ordinary bill whose author or subject merely mentions a narrow
// category's keywords (a parliamentary group named "Popular", a subject citing
// a decree-law) is not pulled into that category. Records matching no rule
// default to ordinary.
type categoryRule struct {
	name     string
	match    func(categoryFields) bool
	category Category
}

var categoryRules = []categoryRule{
	{"ordinary_bill", matchOrdinaryBill, CategoryOrdinary},
	{"urgent_bill", matchUrgentBill, CategoryUrgent},
	{"constitutional_reform", matchConstitutionalReform, CategorySpecialMajority},
	{"autonomous_community", matchAutonomousCommunity, CategoryAutonomous},
	{"popular_initiative", matchPopularInitiative, CategoryPopular},
	{"constitutional_body", matchConstitutionalBody, CategoryInstitutional},
	{"approved_law", matchApprovedLaw, CategoryApprovedLaw},
}

// ClassifyCategory assigns exactly one of the seven processing categories,
// defaulting to ordinary.
func ClassifyCategory(ini *Initiative) Category {
	fields := categoryFields{
		typ:     Normalize(ini.Type),
		mode:    Normalize(ini.ProcessingMode),
		author:  Normalize(ini.Author),
		subject: Normalize(ini.Subject),
	}
	return classifyCategory(fields)
}

// ClassifyLawCategory classifies an approved-law record.
func ClassifyLawCategory(law *ApprovedLaw) Category {
	fields := categoryFields{
		typ:     Normalize(law.Type),
		subject: Normalize(law.Title),
		hasLaw:  law.LawNumber != "",
	}
	return classifyCategory(fields)
}

func classifyCategory(fields categoryFields) Category {
	for _, rule := range categoryRules {
		if rule.match(fields) {
			return rule.category
		}
	}
	return CategoryOrdinary
}

// isBillType reports whether the type text names one of the ordinary bill
// forms: government bill ("proyecto de ley") or members'/parliamentary-group
// bill ("proposición de ley", in any of its variants).
func isBillType(typ string) bool {
	return containsAny(typ, "proyecto de ley", "proposicion de ley")
}

func matchOrdinaryBill(f categoryFields) bool {
	if isBillType(f.typ) && (f.mode == "" || containsAny(f.mode, "normal", "ordinari")) {
		return true
	}
	// Members' bills originating in the Senate follow the ordinary procedure.
	return containsAny(f.author, "senado") && containsAny(f.typ, "proposicion de ley")
}

func matchUrgentBill(f categoryFields) bool {
	if isBillType(f.typ) && containsAny(f.mode, "urgente") {
		return true
	}
	return isGenuineDecreeLawRef(f)
}

// isGenuineDecreeLawRef distinguishes a record that IS a decree-law from an
// ordinary bill whose subject merely cross-references one. The boundary is a
// known heuristic gap carried over from the observed source behaviour: a
// mention in the type text always counts, a mention in the subject only counts
// when the type is not one of the ordinary bill forms.
func isGenuineDecreeLawRef(f categoryFields) bool {
	if containsAny(f.typ, "decreto-ley", "decreto ley") {
		return true
	}
	return containsAny(f.subject, "decreto-ley", "decreto ley") && !isBillType(f.typ)
}

func matchConstitutionalReform(f categoryFields) bool {
	return containsAny(f.typ, "reforma constitucional") ||
		containsAny(f.subject, "reforma de la constitucion", "reforma constitucional")
}

var regionalParliaments = []string{
	"comunidad autonoma",
	"gobierno de la comunidad",
	"parlamento de cataluna",
	"parlamento vasco",
	"parlamento de galicia",
	"parlamento de andalucia",
	"parlamento de navarra",
	"parlamento de canarias",
	"parlamento de las illes balears",
	"parlamento de la rioja",
	"cortes de aragon",
	"cortes de castilla-la mancha",
	"cortes de castilla y leon",
	"cortes valencianas",
	"asamblea de madrid",
	"asamblea de extremadura",
	"asamblea regional de murcia",
	"junta general del principado de asturias",
	"parlamento de cantabria",
	"asamblea de ceuta",
	"asamblea de melilla",
}

func matchAutonomousCommunity(f categoryFields) bool {
	return containsAny(f.author, regionalParliaments...) ||
		containsAny(f.typ, "reforma de estatuto de autonomia")
}

func matchPopularInitiative(f categoryFields) bool {
	return containsAny(f.author, "popular") ||
		containsAny(f.typ, "iniciativa legislativa popular", "ilp") ||
		containsAny(f.subject, "iniciativa legislativa popular")
}

var constitutionalBodies = []string{
	"defensor del pueblo",
	"consejo general del poder judicial",
	"tribunal constitucional",
	"consejo de estado",
	"parlamento europeo",
}

func matchConstitutionalBody(f categoryFields) bool {
	return containsAny(f.author, constitutionalBodies...)
}

func matchApprovedLaw(f categoryFields) bool {
	return f.hasLaw || containsAny(f.typ, "leyes")
}
