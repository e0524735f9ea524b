package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	domcat "github.com/kailas-cloud/assessrank/internal/domain/catalog"
)

// itemRow is the on-disk JSON shape of a catalog entry.
type itemRow struct {
	ID            flexString   `json:"id"`
	Name          string       `json:"name"`
	URL           string       `json:"url"`
	RemoteSupport bool         `json:"remote_support"`
	AdaptiveIRT   bool         `json:"adaptive_irt"`
	TestTypes     []string     `json:"test_types"`
	Description   string       `json:"description"`
	Duration      flexDuration `json:"duration"`
}

func (r *itemRow) toDomain() (domcat.Item, error) {
	return domcat.New(string(r.ID), r.Description, domcat.Attributes{
		Name:          r.Name,
		URL:           r.URL,
		TestTypes:     r.TestTypes,
		Duration:      int(r.Duration),
		RemoteSupport: r.RemoteSupport,
		AdaptiveIRT:   r.AdaptiveIRT,
	})
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*s = flexString(n.String())
	return nil
}

var firstNumber = regexp.MustCompile(`\d+`)

// flexDuration accepts minutes as a number, a string such as "30 minutes", or null.
// Strings without digits decode to zero.
type flexDuration int

func (d *flexDuration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		m := firstNumber.FindString(v)
		if m == "" {
			*d = 0
			return nil
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			return fmt.Errorf("duration %q: %w", v, err)
		}
		*d = flexDuration(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("duration must be a number or string: %w", err)
	}
	*d = flexDuration(int(f))
	return nil
}
