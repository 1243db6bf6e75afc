package model

// DetectedForm describes one <form> element found in a document.
type DetectedForm struct {
	URL    string      `json:"url"`
	Action string      `json:"action"`
	Method string      `json:"method"`
	Fields []FormField `json:"fields"`
}

// FormField describes one data-bearing control inside a form.
type FormField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
}

type DetectFormsRequest struct {
	WebsiteID string `json:"websiteId"`
	URL       string `json:"url"`
}

type ExtractFormsRequest struct {
	HTML    string `json:"html"`
	BaseURL string `json:"baseUrl"`
}

type DetectionResult struct {
	WebsiteID string         `json:"websiteId,omitempty"`
	URL       string         `json:"url"`
	Count     int            `json:"count"`
	Forms     []DetectedForm `json:"forms"`
}
