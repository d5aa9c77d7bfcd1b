package services

// ServiceContainer bundles the service facades the HTTP layer depends on.
type ServiceContainer struct {
	Ledger  LedgerSvcFacade
	Account AccountSvcFacade
}
