package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func subtypeOf(t *testing.T, text string, family Family) Subtype {
	t.Helper()
	return classifySubtype(text, strings.ToLower(text), family)
}

func Test_ContractSubtype_TitleWinsOverKeywords(t *testing.T) {
	text := `PROFESSIONAL SERVICES AGREEMENT

This agreement references a statement of work to be delivered by the
independent contractor engaged hereunder.`

	assert.Equal(t, SubtypeProfessionalServicesAgreement, subtypeOf(t, text, FamilyContract))
}

func Test_ContractSubtype_NDAWithoutPaymentTerms(t *testing.T) {
	text := `NON-DISCLOSURE AGREEMENT

The parties agree to keep all shared information strictly secret for a
span of five years from the signing of this agreement.`

	assert.Equal(t, SubtypeNDA, subtypeOf(t, text, FamilyContract))
}

func Test_ContractSubtype_PaymentTermsExcludeNDA(t *testing.T) {
	text := `NON-DISCLOSURE AGREEMENT

The parties agree to keep all shared information strictly secret.
The monthly fee of EUR 2,000 is payable under the Payment Terms section.`

	assert.Equal(t, SubtypeServiceAgreement, subtypeOf(t, text, FamilyContract))
}

func Test_ContractSubtype_StatementOfWorkFallback(t *testing.T) {
	text := strings.Repeat("preamble text without any markers whatsoever\n", 20) +
		"the parties refer to the statement of work attached hereto"

	assert.Equal(t, SubtypeStatementOfWork, subtypeOf(t, text, FamilyContract))
}

func Test_ContractSubtype_Generic(t *testing.T) {
	text := "this agreement is made between the undersigned parties for mutual benefit"

	assert.Equal(t, SubtypeContractGeneric, subtypeOf(t, text, FamilyContract))
}

func Test_CertificateSubtype_Diploma(t *testing.T) {
	text := "DIPLOMA DI LAUREA rilasciato dall'Università degli Studi di Bologna"

	assert.Equal(t, SubtypeDiploma, subtypeOf(t, text, FamilyCertificate))
}

func Test_FinancialSubtype_Payslip(t *testing.T) {
	text := "BUSTA PAGA del mese di marzo, retribuzione lorda"

	assert.Equal(t, SubtypePayslip, subtypeOf(t, text, FamilyFinancial))
}
