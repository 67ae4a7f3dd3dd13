package logging

// Standardized field names for structured logging.
const (
	FieldMessageID     = "message_id"
	FieldInstructionID = "instruction_id"
	FieldTransactionID = "transaction_id"
	FieldIBAN          = "iban"
	FieldBIC           = "bic"
	FieldCount         = "count"
	FieldFailed        = "failed"
	FieldRow           = "row"
	FieldControlSum    = "control_sum"
	FieldResolver      = "resolver"
	FieldStatus        = "status"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
	FieldInputFile     = "input_file"
	FieldOutputFile    = "output_file"
	FieldFormat        = "format"
)

// Output formats accepted by NewLogrusAdapter.
const (
	FormatText = "text"
	FormatJSON = "json"
)
