package dispatch

// Form identifies one of the operator's lifecycle forms. Each form has its
// own single-flight busy state; different forms are independently usable.
type Form string

const (
	FormRegister    Form = "register"
	FormMaintenance Form = "maintenance"
	FormTransfer    Form = "transfer"
	FormStatus      Form = "status"
)

// Form buffers are ephemeral and client-local: cleared on successful
// submission, otherwise retained verbatim so the operator can correct and
// resubmit. Optional fields left blank are substituted with configured
// defaults at submit time; the buffer itself is never rewritten.

// RegisterForm buffers a part registration.
type RegisterForm struct {
	PartNumber      string `validate:"required"`
	SerialNumber    string `validate:"required"`
	PartName        string `validate:"required"`
	CertificateHash string
}

// MaintenanceForm buffers a maintenance record.
type MaintenanceForm struct {
	PartID          uint64 `validate:"required"`
	MaintenanceType string `validate:"required"`
	ReportHash      string
	Notes           string
}

// TransferForm buffers a custody transfer.
type TransferForm struct {
	PartID    uint64 `validate:"required"`
	ToAddress string `validate:"required"`
	Reason    string
}

// StatusForm buffers a lifecycle status change. The ordinal is passed to the
// ledger raw; transition legality is enforced there, not here.
type StatusForm struct {
	PartID uint64 `validate:"required"`
	Status uint8  `validate:"lt=5"`
}
