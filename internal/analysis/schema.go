package analysis

// Schema is the subset of the Gemini structured-output schema language this
// application needs: typed objects, arrays, strings, and closed enums.
type Schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Enum        []string          `json:"enum,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty"`
	Required    []string          `json:"required,omitempty"`
	Items       *Schema           `json:"items,omitempty"`
}

const (
	typeObject = "OBJECT"
	typeArray  = "ARRAY"
	typeString = "STRING"
)

// ResponseSchema returns the structured-output constraint sent with every
// analysis request. It must match MediaAnalysis field for field; the schema
// drift test enforces that.
func ResponseSchema() Schema {
	severityValues := make([]string, 0, len(Severities()))
	for _, s := range Severities() {
		severityValues = append(severityValues, string(s))
	}

	return Schema{
		Type: typeObject,
		Properties: map[string]Schema{
			"title":     {Type: typeString, Description: "The official title of the media."},
			"mediaType": {Type: typeString, Description: "Type of media (Movie, Book, Show, Song, etc)."},
			"ratings": {
				Type: typeObject,
				Properties: map[string]Schema{
					"originCountry": {Type: typeString, Description: "The primary country of origin."},
					"originRating":  {Type: typeString, Description: "The rating in the country of origin (e.g., BBFC 15, TV-MA)."},
					"usMpaRating":   {Type: typeString, Description: "The equivalent US MPA or TV Parental Guidelines rating."},
					"suggestedAge": {
						Type:        typeString,
						Description: "Suggested minimum age (e.g., '13+', '18+', 'All Ages'). If the content is suitable for 16 or 17 year olds, you MUST round up and output '18+'.",
					},
					"explanation": {Type: typeString, Description: "Brief explanation of why it received this rating."},
				},
				Required: []string{"originCountry", "originRating", "usMpaRating", "suggestedAge", "explanation"},
			},
			"contentWarnings": {
				Type: typeArray,
				Items: &Schema{
					Type: typeObject,
					Properties: map[string]Schema{
						"category": {Type: typeString, Description: "Category (e.g., Violence, Sexual Content, Language)."},
						"severity": {Type: typeString, Enum: severityValues},
						"details":  {Type: typeString, Description: "Specific details about the content."},
						"specificScenes": {
							Type:        typeArray,
							Items:       &Schema{Type: typeString},
							Description: "Descriptions of specific scenes that triggered this warning.",
						},
					},
					Required: []string{"category", "severity", "details", "specificScenes"},
				},
			},
			"controversies": {
				Type:        typeArray,
				Items:       &Schema{Type: typeString},
				Description: "List of controversies, bans, or public backlashes the media has faced.",
			},
			"overallAssessment": {
				Type:        typeString,
				Description: "A comprehensive parental guidance summary and overall assessment.",
			},
		},
		Required: []string{"title", "mediaType", "ratings", "contentWarnings", "controversies", "overallAssessment"},
	}
}
