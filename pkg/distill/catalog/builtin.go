package catalog

// Two built-in catalogs ship with the engine. The industrial one targets
// factory-floor documents (manuals, work orders, safety procedures) and pins a
// per-label confidence. The organizational one targets office and business
// documents and scores every candidate instead. They are alternatives, not
// layers: pick the one that matches the corpus, or load a custom catalog from
// configuration.

// IndustrialSpec declares the fixed-confidence catalog for industrial
// documents.
func IndustrialSpec() Spec {
	return Spec{
		Labels: []LabelSpec{
			{
				Name:       "EQUIPMENT",
				Mode:       FixedConfidence,
				Confidence: 0.8,
				Patterns: []string{
					`\b(?:pump|motor|valve|sensor|conveyor|robot|machine|equipment)\s*(?:#?\d+|[A-Z]\d+)?\b`,
					`\b[A-Z]{2,4}-\d{2,6}\b`,
					`\b(?:Model|Part|Serial)\s*(?:No\.?|Number)?\s*:?\s*([A-Z0-9-]+)\b`,
				},
			},
			{
				Name:       "SAFETY",
				Mode:       FixedConfidence,
				Confidence: 0.9,
				Patterns: []string{
					`\b(?:PPE|personal protective equipment|safety glasses|hard hat|gloves|respirator)\b`,
					`\b(?:hazard|danger|warning|caution|risk)\b`,
					`\b(?:OSHA|safety procedure|lockout|tagout|LOTO)\b`,
				},
			},
			{
				Name:       "PROCESS",
				Mode:       FixedConfidence,
				Confidence: 0.7,
				Patterns: []string{
					`\b(?:temperature|pressure|flow rate|speed|RPM|PSI|°F|°C)\b`,
					`\b\d+\s*(?:PSI|RPM|°F|°C|GPM|CFM|Hz)\b`,
					`\b(?:start|stop|pause|resume|emergency stop|e-stop)\b`,
				},
			},
			{
				Name:       "PERSONNEL",
				Mode:       FixedConfidence,
				Confidence: 0.8,
				Patterns: []string{
					`\b(?:operator|technician|supervisor|manager|engineer|maintenance)\b`,
					`\b(?:shift|team|crew|department)\s*(?:lead|leader|supervisor)?\b`,
				},
			},
		},
	}
}

// OrganizationalSpec declares the scored catalog for office and business
// documents. Confidence comes from the recognizer's scoring function, so each
// label carries boost terms and the catalog carries a stop-term set.
func OrganizationalSpec() Spec {
	return Spec{
		StopTerms: []string{
			"the", "this", "that", "with", "from", "have", "been", "will", "other",
		},
		Labels: []LabelSpec{
			{
				Name: "ORGANIZATION",
				Mode: Scored,
				Patterns: []string{
					`\b[A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*\s+(?:Inc|Corp|Corporation|LLC|Ltd|Company|Group)\.?\b`,
					`\b(?:department|division|committee|board|agency|bureau)\s+of\s+[A-Z][A-Za-z]+\b`,
				},
				BoostTerms: []string{"inc", "corp", "llc", "ltd", "company", "group"},
			},
			{
				Name: "TECHNOLOGY",
				Mode: Scored,
				Patterns: []string{
					`\b(?:software|hardware|database|server|network|platform|application|firmware)\s*(?:system|suite|stack)?\b`,
					`\b(?:API|SDK|PLC|SCADA|HMI|ERP|CRM)\b`,
				},
				BoostTerms: []string{"system", "platform", "software", "api"},
			},
			{
				Name: "PERSON",
				Mode: Scored,
				Patterns: []string{
					`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`,
					`\b(?:director|president|officer|analyst|specialist|coordinator)\b`,
				},
				BoostTerms: []string{"director", "president", "officer"},
			},
			{
				Name: "LOCATION",
				Mode: Scored,
				Patterns: []string{
					`\b(?:plant|facility|warehouse|site|building|campus)\s*(?:#?\d+|[A-Z]\d*)?\b`,
					`\b(?:Room|Bay|Dock|Floor)\s+[A-Z0-9]+\b`,
				},
				BoostTerms: []string{"facility", "building", "warehouse"},
			},
		},
	}
}

// NewIndustrial builds the industrial catalog. Built-in specs are known-good,
// so compilation failure is a programmer error.
func NewIndustrial() *Catalog { return mustNew(IndustrialSpec()) }

// NewOrganizational builds the organizational catalog.
func NewOrganizational() *Catalog { return mustNew(OrganizationalSpec()) }

func mustNew(spec Spec) *Catalog {
	c, err := New(spec)
	if err != nil {
		panic(err)
	}
	return c
}
