// Package classify assigns raw document text to a document family and
// subtype using layered keyword, structural, and semantic co-occurrence
// signals. Classification is fully deterministic: rule tables are compiled
// once at startup and evaluated in declaration order.
package classify

// MaxConfidence caps every confidence emitted by the pipeline. No signal
// combination may claim certainty.
const MaxConfidence = 0.98

// Family is the coarse document category driving policy resolution.
type Family string

const (
	FamilyIdentity       Family = "identity"
	FamilyDrivingLicense Family = "driving_license"
	FamilyContract       Family = "contract"
	FamilyCertificate    Family = "certificate"
	FamilyFinancial      Family = "financial"
	FamilyCorporate      Family = "corporate"
	FamilyUnknown        Family = "unknown"
)

// Subtype refines a family for precise policy application.
type Subtype string

const (
	SubtypeEngagementLetter               Subtype = "engagement_letter"
	SubtypeStatementOfWork                Subtype = "statement_of_work"
	SubtypeIndependentContractorAgreement Subtype = "independent_contractor_agreement"
	SubtypeProfessionalServicesAgreement  Subtype = "professional_services_agreement"
	SubtypeServiceAgreement               Subtype = "service_agreement"
	SubtypeNDA                            Subtype = "nda"
	SubtypeContractGeneric                Subtype = "contract_generic"

	SubtypeDiploma                 Subtype = "diploma"
	SubtypeCertificateOfEngagement Subtype = "certificate_of_engagement"
	SubtypeCertificateGeneric      Subtype = "certificate_generic"

	SubtypeInvoice       Subtype = "invoice"
	SubtypePayslip       Subtype = "payslip"
	SubtypeBankStatement Subtype = "bank_statement"

	SubtypeIDCard   Subtype = "id_card"
	SubtypePassport Subtype = "passport"

	SubtypeUnknown Subtype = "unknown"
)

// Source names the strongest signal class that produced a classification.
type Source string

const (
	SourceLayout   Source = "layout"
	SourceKeywords Source = "keywords"
	SourceSemantic Source = "semantic_co_occurrence"
	SourceNone     Source = "none"
)

// Result is the outcome of classifying one document.
type Result struct {
	Family            Family
	Subtype           Subtype
	Confidence        float64
	Source            Source
	Signals           []string
	KeywordMatches    int
	StructuralMatches int
	CoOccurrenceBoost float64
}

// KnownFamily reports whether f names a certifiable document family.
func KnownFamily(f Family) bool {
	switch f {
	case FamilyIdentity, FamilyDrivingLicense, FamilyContract,
		FamilyCertificate, FamilyFinancial, FamilyCorporate:
		return true
	}
	return false
}

// Unclassified is returned for empty or unrecognizable text.
func Unclassified() Result {
	return Result{
		Family:  FamilyUnknown,
		Subtype: SubtypeUnknown,
		Source:  SourceNone,
	}
}
