package request

// Takedown is one DMCA takedown request loaded from a JSON config file.
// A value is only handed out after full validation and is never persisted;
// each batch run constructs its requests fresh and discards them.
type Takedown struct {
	From                        string   `json:"from"`
	CopyrightHolderOrAuthorized string   `json:"copyright_holder_or_authorized"`
	IsRevised                   string   `json:"is_revised"`
	ContentSource               string   `json:"content_source"`
	Ownership                   string   `json:"ownership"`
	WorkDescription             string   `json:"work_description"`
	InfringingURLs              []string `json:"infringing_urls"`
	AccessControl               string   `json:"access_control"`
	ForksInformation            string   `json:"forks_information"`
	OpenSource                  string   `json:"open_source"`
	Solution                    string   `json:"solution"`
	Contact                     string   `json:"contact"`
	LegalName                   string   `json:"legal_name"`
	ContactEmail                string   `json:"contact_email"`
	Phone                       string   `json:"phone"`
}
