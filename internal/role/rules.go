package role

import "regexp"

// signal is a named evidence pattern. Hard signals are explicit statements;
// soft signals are contextual phrasing that merely suggests the role.
type signal struct {
	Name string
	Re   *regexp.Regexp
}

type roleRule struct {
	Role Role
	Hard []signal
	Soft []signal
}

func sig(name, expr string) signal {
	return signal{Name: name, Re: regexp.MustCompile("(?i)" + expr)}
}

// negationRe excludes a hard match when a negating phrase immediately
// precedes it: "not an independent contractor" must not count as
// contractor evidence.
var negationRe = regexp.MustCompile(`(?i)(?:\bnot\b|\bnever\b|\bno\s+longer\b)\s*(?:an?\s+)?$`)

// negationWindow is how far back from a match the negation check looks.
const negationWindow = 20

// roleRules is evaluated in declaration order. Scores are hard*3 + soft*1;
// a tie between distinct roles resolves to Unknown.
var roleRules = []roleRule{
	{
		Role: Contractor,
		Hard: []signal{
			sig("independent_contractor", `independent\s+contractor`),
			sig("not_an_employee", `is\s+not\s+an\s+employee`),
			sig("contractor_agreement", `contractor\s+agreement`),
			sig("consulting_agreement", `consulting\s+agreement`),
			sig("freelance_contract", `freelance\s+contract`),
			sig("service_agreement", `service\s+agreement`),
			sig("contractor_shall", `contractor\s+shall`),
			sig("contractor_will", `contractor\s+will`),
			sig("as_a_contractor", `as\s+a\s+contractor`),
			sig("engagement_letter", `engagement\s+letter`),
			sig("letter_of_engagement", `letter\s+of\s+engagement`),
			sig("service_provider", `service\s+provider`),
			sig("engaged_as_contractor", `engaged\s+as\s+an?\s+independent\s+contractor`),
			sig("this_engagement_letter", `this\s+engagement\s+letter`),
		},
		Soft: []signal{
			sig("services_rendered", `services\s+rendered`),
			sig("this_agreement", `this\s+agreement`),
			sig("effective_date", `effective\s+date`),
			sig("client_contractor_pair", `client\s+/\s+contractor`),
			sig("contractor_client_pair", `contractor\s+/\s+client`),
			sig("statement_of_work", `statement\s+of\s+work`),
			sig("work_order", `work\s+order`),
			sig("retainer_agreement", `retainer\s+agreement`),
			sig("certificate_of_engagement", `certificate\s+of\s+engagement`),
			sig("services_provided", `services\s+provided`),
			sig("services_requested_by", `services\s+requested\s+by`),
			sig("letter_certifies", `this\s+letter\s+certifies`),
			sig("salutation", `dear\s+[A-Z]`),
			sig("fees_charged", `fees\s+charged`),
		},
	},
	{
		Role: Employee,
		Hard: []signal{
			sig("employment_agreement", `employment\s+agreement`),
			sig("employee_of", `employee\s+of`),
			sig("is_an_employee", `is\s+an\s+employee`),
			sig("employment_relationship", `employment\s+relationship`),
			sig("wage_earner", `wage\s+earner`),
		},
		Soft: []signal{
			sig("payslip", `payslip`),
			sig("salary", `salary`),
			sig("employment_letter", `employment\s+letter`),
			sig("hr_letter", `hr\s+letter`),
		},
	},
	{
		Role: Student,
		Hard: []signal{
			sig("student_at", `student\s+at`),
			sig("enrolled_student", `enrolled\s+student`),
			sig("student_id", `student\s+id`),
			sig("student_number", `student\s+number`),
		},
	},
	{
		Role: Supplier,
		Hard: []signal{
			sig("supplier_agreement", `supplier\s+agreement`),
			sig("vendor_contract", `vendor\s+contract`),
			sig("supplies_to", `supplies\s+to`),
		},
	},
	{
		Role: Director,
		Hard: []signal{
			sig("director_of", `director\s+of`),
			sig("board_member", `board\s+member`),
			sig("managing_director", `managing\s+director`),
		},
	},
}
