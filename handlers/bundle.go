package handlers

// HandlerBundle groups every endpoint handler mounted by the router.
type HandlerBundle struct {
	Packages    *PackageHandler
	Bookings    *BookingHandler
	Wizard      *WizardHandler
	Wallet      *WalletHandler
	Account     *AccountHandler
	Subscribers *SubscriberHandler
	AI          *AIHandler
	Flights     *FlightHandler
	Storage     *StorageHandler // nil when Cloudinary is not configured
	Admin       *AdminHandler
}
