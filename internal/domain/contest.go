package domain

import "encoding/json"

// Contest is one upcoming contest's metadata as produced by the
// external feed. Read-only within the bot. Date is canonical
// DD-MM-YYYY, StartTime is HH:MM (24h); the remaining fields are
// optional.
type Contest struct {
	Name      string
	Date      string
	StartTime string
	EndTime   string
	Platform  string
	URL       string
}

// UnmarshalJSON accepts the field aliases the upstream scraper emits:
// "contest" for the name, "time" for the start, "site"/"resource" for
// the platform.
func (c *Contest) UnmarshalJSON(b []byte) error {
	var raw struct {
		ContestName string `json:"contest_name"`
		Contest     string `json:"contest"`
		Date        string `json:"date"`
		StartTime   string `json:"start_time"`
		Time        string `json:"time"`
		EndTime     string `json:"end_time"`
		Platform    string `json:"platform"`
		Site        string `json:"site"`
		Resource    string `json:"resource"`
		URL         string `json:"url"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.Name = firstNonEmpty(raw.ContestName, raw.Contest)
	c.Date = raw.Date
	c.StartTime = firstNonEmpty(raw.StartTime, raw.Time)
	c.EndTime = raw.EndTime
	c.Platform = firstNonEmpty(raw.Platform, raw.Site, raw.Resource)
	c.URL = raw.URL
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
