package main

import (
	"fmt"

	"bitbucket.org/crgw/booking-client/internal/schema"
)

// terminalDisplay renders the map surface as plain terminal lines. It has no
// real viewport, so it reports every point as visible and auto-fit stays
// quiet.
type terminalDisplay struct{}

func (d *terminalDisplay) PlaceMarker(role schema.MarkerRole, p schema.GeoPoint) {
	fmt.Printf("[map] %s marker at %s\n", role, p)
}

func (d *terminalDisplay) RemoveMarker(role schema.MarkerRole) {
	fmt.Printf("[map] %s marker removed\n", role)
}

func (d *terminalDisplay) FitToBounds(points []schema.GeoPoint) {
	fmt.Printf("[map] fit view to %d points\n", len(points))
}

func (d *terminalDisplay) ViewportContains(p schema.GeoPoint) bool {
	return true
}

func (d *terminalDisplay) SetStatusText(text string, severity schema.Severity) {
	fmt.Printf("[status] %s%s\n", severityTag(severity), text)
}

func (d *terminalDisplay) SetCoordinateReadout(role schema.MarkerRole, p schema.GeoPoint) {
	fmt.Printf("[%s] %s\n", role, p)
}

func (d *terminalDisplay) SetTrackingPanelVisible(visible bool) {
	if visible {
		fmt.Println("--- tracking ---")
		return
	}
	fmt.Println("--- selection ---")
}

func (d *terminalDisplay) SetTrackingInfo(info schema.TrackingInfo) {
	fmt.Printf("[driver] name=%s vehicle=%s distance=%s eta=%s status=%s\n",
		orNA(info.DriverName), orNA(info.Vehicle), orNA(info.Distance), orNA(info.ETA), orNA(info.LiveStatus))
}

func (d *terminalDisplay) SetPollingIndicator(text string, severity schema.Severity) {
	fmt.Printf("[polling] %s%s\n", severityTag(severity), text)
}

func (d *terminalDisplay) SetBusy(busy bool) {
	if busy {
		fmt.Println("[busy] working...")
	}
}

func (d *terminalDisplay) ShowNotice(text string) {
	fmt.Printf("[notice] %s\n", text)
}

func (d *terminalDisplay) PromptPriceConfirmation(quote schema.BookingQuote, start, dest *schema.GeoPoint) {
	fmt.Println("--- price confirmation ---")
	fmt.Printf("price: $%.2f\n", quote.Price)
	if start != nil {
		fmt.Printf("from:  %s\n", *start)
	}
	if dest != nil {
		fmt.Printf("to:    %s\n", *dest)
	}
	if quote.RequestID != "" {
		fmt.Printf("request id: %s\n", quote.RequestID)
	}
	fmt.Println("accept? type 'yes' or 'no'")
}

func severityTag(severity schema.Severity) string {
	switch severity {
	case schema.SeverityError:
		return "ERROR "
	case schema.SeverityOK:
		return "OK "
	default:
		return ""
	}
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
