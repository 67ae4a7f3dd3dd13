package models

// PaymentMethod is PaymentMethod3Code.
type PaymentMethod string

const (
	PaymentMethodCheque         PaymentMethod = "CHK"
	PaymentMethodCreditTransfer PaymentMethod = "TRF"
	PaymentMethodTransferAdvice PaymentMethod = "TRA"
)

// IsValid reports whether m is a known code.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCheque, PaymentMethodCreditTransfer, PaymentMethodTransferAdvice:
		return true
	}
	return false
}

// ChargeBearer is ChargeBearerType1Code. The zero value means "not set".
type ChargeBearer string

const (
	ChargeBearerDebtor       ChargeBearer = "DEBT"
	ChargeBearerCreditor     ChargeBearer = "CRED"
	ChargeBearerShared       ChargeBearer = "SHAR"
	ChargeBearerServiceLevel ChargeBearer = "SLEV"
	ChargeBearerNone         ChargeBearer = ""
)

// IsValid reports whether b is a known code. The empty value is not.
func (b ChargeBearer) IsValid() bool {
	switch b {
	case ChargeBearerDebtor, ChargeBearerCreditor, ChargeBearerShared, ChargeBearerServiceLevel:
		return true
	}
	return false
}

// Code sets of the smaller enumerations.
var (
	Priorities              = []string{"HIGH", "NORM"}
	SequenceTypes           = []string{"FRST", "RCUR", "FNAL", "OOFF", "RPRE"}
	ExchangeRateTypes       = []string{"SPOT", "SALE", "AGRD"}
	CreditorAgentInstrCodes = []string{"CHQB", "HOLD", "PHOB", "TELB"}
	AddressTypes            = []string{"ADDR", "PBOX", "HOME", "BIZZ", "MLTO", "DLVY"}
	NamePrefixes            = []string{"DOCT", "MADM", "MISS", "MIST", "MIKS"}
	PreferredMethods        = []string{"LETT", "MAIL", "PHON", "FAXX", "CELL"}
)

// Field length limits used across the schemas.
const (
	MaxText4    = 4
	MaxText16   = 16
	MaxText35   = 35
	MaxText40   = 40
	MaxText50   = 50
	MaxText70   = 70
	MaxText128  = 128
	MaxText140  = 140
	MaxText2048 = 2048

	MaxAddressLines = 7
)

// MaxNumberOfTransactions bounds NbOfTxs (Max15NumericText).
const MaxNumberOfTransactions int64 = 999_999_999_999_999

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionOutputFile = 0644
)
