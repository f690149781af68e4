package domain

// OperationKind classifies an endpoint for the subscription gate.
type OperationKind string

const (
	OperationRead              OperationKind = "READ"
	OperationMutate            OperationKind = "MUTATE"
	OperationBillingResolution OperationKind = "BILLING_RESOLUTION"
)
