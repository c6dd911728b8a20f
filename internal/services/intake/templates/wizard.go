package templates

import "github.com/a-h/templ"

// IdentityView carries form state for the chip identity step.
type IdentityView struct {
	pageText
	Action           string
	ChipType         string
	BoxNumber        string
	BulkSilo         string
	Purchased        string
	Product          string
	NetWeight        string
	OperatorName     string
	Products         []string
	PurchasedOptions []string
	ErrorField       string
	ErrorMessage     string
}

// IdentityForm renders the chip identity step.
func IdentityForm(loc Localizer, view IdentityView) templ.Component {
	view.pageText = pageText{loc: loc}
	return renderPage("identity.html", view)
}

// DestinationView carries form state for the destination step.
type DestinationView struct {
	pageText
	Action       string
	BackURL      string
	Destination  string
	Destinations []string
	ErrorMessage string
}

// DestinationForm renders the destination selection step.
func DestinationForm(loc Localizer, view DestinationView) templ.Component {
	view.pageText = pageText{loc: loc}
	return renderPage("destination.html", view)
}

// ReviewRow pairs a field label with its recorded value.
type ReviewRow struct {
	Label string
	Value string
}

// ReviewView carries the record summary for the review step.
type ReviewView struct {
	pageText
	SubmitAction string
	BackURL      string
	Rows         []ReviewRow
	Submitting   bool
}

// ReviewPage renders the record summary and submit form.
func ReviewPage(loc Localizer, view ReviewView) templ.Component {
	view.pageText = pageText{loc: loc}
	return renderPage("review.html", view)
}

// SavedView carries the post-save confirmation state.
type SavedView struct {
	pageText
	RowMessage string
	NextURL    string
}

// SavedPage renders the post-save confirmation.
func SavedPage(loc Localizer, view SavedView) templ.Component {
	view.pageText = pageText{loc: loc}
	return renderPage("saved.html", view)
}
