package models

// FlightSearchRequest is forwarded to the flight provider.
type FlightSearchRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Date        string `json:"date" binding:"required"`
	ReturnDate  string `json:"returnDate,omitempty"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	Infants     int    `json:"infants"`
}

// FlightSegment is one leg of an offer's itinerary.
type FlightSegment struct {
	Carrier       string `json:"carrier"`
	FlightNumber  string `json:"flightNumber"`
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
}

// FlightOffer is a fare returned by the provider.
type FlightOffer struct {
	ID         string          `json:"id"`
	Segments   []FlightSegment `json:"segments"`
	Price      float64         `json:"price"`
	Currency   string          `json:"currency"`
	Passengers int             `json:"passengers"`
}

// Passengers returns the total traveler count of the search.
func (r FlightSearchRequest) Passengers() int {
	return r.Adults + r.Children + r.Infants
}
