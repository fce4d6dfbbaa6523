package classify

import "regexp"

// familyRule scores one family. Keywords weigh 3 each; structural patterns
// weigh StructuralWeight each. MinMatches is the floor of combined keyword
// and structural hits below which the family is not a candidate at all.
type familyRule struct {
	Family           Family
	Keywords         []string
	Structural       []structuralPattern
	CoOccurrence     []coOccurrencePattern
	StructuralWeight int
	MinMatches       int
}

type structuralPattern struct {
	Name string
	Re   *regexp.Regexp
}

// coOccurrencePattern is a combination signal: the guard regex must match
// and at least 70% of the companion keywords must be present for the boost
// to apply.
type coOccurrencePattern struct {
	Name     string
	Guard    *regexp.Regexp
	Keywords []string
	Boost    float64
}

func sp(name, expr string) structuralPattern {
	return structuralPattern{Name: name, Re: regexp.MustCompile("(?i)" + expr)}
}

func co(name, expr string, boost float64, keywords ...string) coOccurrencePattern {
	return coOccurrencePattern{
		Name:     name,
		Guard:    regexp.MustCompile("(?is)" + expr),
		Keywords: keywords,
		Boost:    boost,
	}
}

// familyRules is evaluated in declaration order; on fully tied scores the
// earlier family wins, which keeps classification deterministic.
var familyRules = []familyRule{
	{
		Family: FamilyIdentity,
		Keywords: []string{
			"carta d'identità",
			"carta di identità",
			"passaporto",
			"passport",
			"documento identità",
			"codice fiscale",
			"data di nascita",
		},
		Structural: []structuralPattern{
			sp("mrz_line", `[A-Z0-9<]{25,}`),
			sp("name_field", `nome\s*:?\s*[A-Z]`),
			sp("surname_field", `cognome\s*:?\s*[A-Z]`),
		},
		StructuralWeight: 3,
		MinMatches:       2,
	},
	{
		Family: FamilyDrivingLicense,
		Keywords: []string{
			"patente di guida",
			"patente",
			"repubblica italiana",
			"a1", "a2", "b", "c1", "c", "d1", "d",
		},
		Structural: []structuralPattern{
			sp("numbered_field", `\d+[a-z]?\.\s*`),
			sp("issue_date_field", `4a\.\s*`),
			sp("expiry_date_field", `4b\.\s*`),
		},
		StructuralWeight: 2,
		MinMatches:       2,
	},
	{
		Family: FamilyContract,
		Keywords: []string{
			"contratto",
			"contract",
			"accordo",
			"agreement",
			"clausola",
			"clause",
			"parti contraenti",
			"soggetto",
			"firmato",
			"signed",
			"independent contractor",
			"consulting agreement",
			"freelance contract",
			"service agreement",
			"statement of work",
			"statement of work (sow)",
			"sow",
			"work order",
			"assignment letter",
			"retainer agreement",
			"letter of engagement",
			"engagement letter",
			"certificate of engagement",
			"statement of employment",
			"letter from hr",
			"client:",
			"contractor:",
			"client / contractor",
			"contractor / client",
			"dear",
			"this letter",
			"this engagement letter",
			"this agreement",
			"service provider",
			"services provided",
			"fees charged",
		},
		Structural: []structuralPattern{
			sp("contratto_di", `contratto\s+di\s+(\w+)`),
			sp("parti_contraenti", `parti\s+contraenti`),
			sp("clause_number", `clausola\s+\d+`),
			sp("signed_on", `firmato\s+il`),
			sp("independent_contractor", `independent\s+contractor`),
			sp("contractor_agreement", `contractor\s+agreement`),
			sp("statement_of_work", `statement\s+of\s+work`),
			sp("statement_of_work_sow", `statement\s+of\s+work\s*\(sow\)`),
			sp("effective_date", `effective\s+date`),
			sp("client_label", `client:\s*[A-Z]`),
			sp("contractor_label", `contractor:\s*[A-Z]`),
			sp("reference_agreement", `reference\s+agreement`),
			sp("engagement_letter", `engagement\s+letter`),
			sp("this_engagement_letter", `this\s+engagement\s+letter`),
			sp("letter_certifies", `this\s+letter\s+certifies`),
			sp("salutation", `dear\s+[A-Z][a-z]+`),
			sp("letter_dated", `this\s+letter\s+dated`),
			sp("services_requested_by", `services\s+requested\s+by`),
			sp("services_section", `services\.?\s+The\s+services\s+provided`),
			sp("fees_section", `fees\.?\s+The\s+fees\s+charged`),
			sp("service_provider", `service\s+provider`),
			sp("services_provided_under", `services\s+provided\s+under`),
		},
		CoOccurrence: []coOccurrencePattern{
			co("engagement_letter_bundle",
				`engagement\s+letter.*?(?:service\s+provider|fees\s+charged|services\s+provided)`,
				0.25, "engagement letter", "service provider", "fees"),
			co("statement_of_work_bundle",
				`statement\s+of\s+work.*?(?:client|contractor|services)`,
				0.20, "statement of work", "client", "contractor"),
			co("contractor_agreement_bundle",
				`independent\s+contractor.*?(?:client|effective\s+date|agreement)`,
				0.20, "independent contractor", "client", "effective date"),
		},
		StructuralWeight: 3,
		MinMatches:       1, // semantic documents are flexible
	},
	{
		Family: FamilyCertificate,
		Keywords: []string{
			"certificato",
			"certificate",
			"diploma",
			"attestato",
			"attestation",
			"laurea",
			"università",
			"universita",
			"cfu",
			"crediti",
		},
		Structural: []structuralPattern{
			sp("diploma_di_laurea", `diploma\s+di\s+laurea`),
			sp("university_of", `universit[àa]\s+degli?\s+studi`),
			sp("certificato_di", `certificato\s+di`),
		},
		CoOccurrence: []coOccurrencePattern{
			co("diploma_bundle",
				`diploma.*?(?:university|universit|cfu|credits)`,
				0.20, "diploma", "university", "cfu"),
		},
		StructuralWeight: 3,
		MinMatches:       2,
	},
	{
		Family: FamilyFinancial,
		Keywords: []string{
			"fattura",
			"invoice",
			"busta paga",
			"payslip",
			"estratto conto",
			"iva",
			"totale",
			"importo",
			"pagamento",
		},
		Structural: []structuralPattern{
			sp("fattura_number", `fattura\s+n[°º]?\s*:?\s*`),
			sp("iva_field", `iva\s*:?\s*`),
			sp("totale_eur", `totale\s*:?\s*€`),
		},
		CoOccurrence: []coOccurrencePattern{
			co("invoice_bundle",
				`invoice.*?(?:total|vat|iva|amount)`,
				0.20, "invoice", "total", "vat"),
		},
		StructuralWeight: 3,
		MinMatches:       2,
	},
	{
		Family: FamilyCorporate,
		Keywords: []string{
			"visura",
			"statuto",
			"bilancio",
			"balance sheet",
			"camera di commercio",
			"partita iva",
			"codice fiscale",
			"società",
			"societa",
		},
		Structural: []structuralPattern{
			sp("chamber_of_commerce", `camera\s+di\s+commercio`),
			sp("visura_camerale", `visura\s+camerale`),
			sp("statuto_sociale", `statuto\s+sociale`),
		},
		StructuralWeight: 3,
		MinMatches:       2,
	},
}
