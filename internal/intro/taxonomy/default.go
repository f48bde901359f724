package taxonomy

// DefaultDefinition returns the built-in vocabulary. Callers may decode a
// Definition from configuration instead.
func DefaultDefinition() Definition {
	return Definition{
		Needs: map[string][]string{
			"m&a":         {"acquisition", "merger"},
			"acquisition": {"m&a", "merger"},
			"merger":      {"m&a", "acquisition"},
			"transition":  {"succession"},
			"succession":  {"transition", "exit"},
			"exit":        {"succession", "transition"},
			"hiring":      {"talent", "recruiting", "staffing"},
			"talent":      {"hiring", "recruiting"},
			"leadership":  {"executive", "search"},
			"funding":     {"capital", "financing"},
		},
		Capabilities: map[string][]string{
			"acquisition": {"m&a", "merger"},
			"m&a":         {"acquisition", "merger"},
			"merger":      {"m&a", "acquisition"},
			"transition":  {"succession"},
			"recruiting":  {"hiring", "talent", "staffing", "recruitment"},
			"staffing":    {"recruiting", "hiring", "talent"},
			"headhunting": {"recruiting", "executive", "search"},
			"financing":   {"capital", "funding"},
		},
		Ambiguous: map[string]Ambiguity{
			"engineering": {Need: []string{"hiring", "talent"}, Capability: []string{"recruiting", "staffing"}},
			"sales":       {Need: []string{"hiring", "talent"}, Capability: []string{"recruiting", "staffing"}},
			"marketing":   {Need: []string{"hiring", "talent"}, Capability: []string{"recruiting", "staffing"}},
			"growth":      {Need: []string{"hiring", "talent"}, Capability: []string{"recruiting", "staffing"}},
			"product":     {Need: []string{"hiring", "talent"}, Capability: []string{"recruiting", "staffing"}},
		},
		NeedCues:       []string{"hire", "hiring", "team", "recruit", "headcount", "role", "opening"},
		CapabilityCues: []string{"recruit", "staffing", "placement", "talent", "search"},
		DemandSniffers: []Sniffer{
			{Name: "hiring", Keywords: []string{"hiring", "job opening", "open role"}, Adds: []string{"hiring", "talent"}},
		},
		SupplySniffers: []Sniffer{
			{Name: "recruiting", Keywords: []string{"recruit", "staffing", "talent"}, Adds: []string{"recruiting", "hiring", "talent", "staffing", "recruitment"}},
		},
		Stopwords: []string{
			"a", "an", "and", "the", "of", "for", "with", "in", "on", "to", "by", "at", "or",
			"our", "we", "your", "their", "from", "as", "is", "are", "be", "that", "this",
			"who", "into", "across", "via", "per", "its",
		},

		BannedPhrases: []string{
			"i work with",
			"my client",
			"we partner with",
			"our client",
			"our partner",
			"we work with",
		},
		Acronyms: map[string]string{
			"ria": "RIA", "m&a": "M&A", "saas": "SaaS", "b2b": "B2B", "b2c": "B2C",
			"ai": "AI", "hr": "HR", "cfo": "CFO", "ceo": "CEO", "cto": "CTO", "coo": "COO",
			"vp": "VP", "pe": "PE", "vc": "VC", "seo": "SEO", "crm": "CRM", "erp": "ERP",
			"gtm": "GTM", "api": "API", "rcm": "RCM", "ehr": "EHR", "fintech": "FinTech",
		},
		Plurals: map[string]string{
			"platform":    "platforms",
			"service":     "services",
			"solution":    "solutions",
			"acquisition": "acquisitions",
			"transition":  "transitions",
			"placement":   "placements",
			"search":      "searches",
			"audit":       "audits",
			"hire":        "hires",
			"advisor":     "advisors",
		},
		Concepts: []string{
			"wealth management",
			"succession planning",
			"executive search",
			"estate planning",
			"tax planning",
			"retirement planning",
			"exit planning",
			"m&a advisory",
			"talent acquisition",
			"demand generation",
			"revenue operations",
		},
		PersonaTerms: []string{
			"owner", "founder", "co-founder", "cofounder", "ceo", "partner", "principal",
			"president", "managing", "director", "advisor", "consultant", "chief", "officer",
			"head", "/",
		},
		LegalSuffixes: []string{
			"llc", "l.l.c.", "inc", "inc.", "incorporated", "corp", "corp.", "corporation",
			"ltd", "ltd.", "limited", "plc", "llp", "lp", "pllc", "gmbh", "co", "co.",
		},

		RecruitingTerms: []string{"recruit", "recruiter", "recruiting", "recruitment", "staffing", "talent", "search", "placement", "headhunter", "headhunting"},
		GrowthTerms:     []string{"growth", "scale", "expansion", "acquisition", "marketing", "sales", "revenue", "demand gen"},
		MATerms:         []string{"m&a", "merger", "acquisition", "succession", "exit", "transition"},
	}
}

// Default returns a Taxonomy built from DefaultDefinition.
func Default() *Taxonomy {
	return New(DefaultDefinition())
}
