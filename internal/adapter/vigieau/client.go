// Package vigieau fetches the restriction order in force for a location from
// the VigiEau public API.
package vigieau

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/water-restriction-etl/internal/domain"
)

// ErrForcedFailure is returned by every fetch while forced failure is enabled.
var ErrForcedFailure = errors.New("vigieau fetch failing on purpose")

// Client queries the VigiEau zones endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	forceFail  bool
	logger     *slog.Logger
}

// NewClient creates a VigiEau client. When forceFail is set every fetch
// returns ErrForcedFailure without calling the API.
func NewClient(baseURL string, timeout time.Duration, forceFail bool, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		forceFail:  forceFail,
		logger:     logger,
	}
}

// FetchZone returns the zone report for q. A location without an order in
// force yields a report with NoActiveOrder set and a nil error.
func (c *Client) FetchZone(ctx context.Context, q domain.ZoneQuery) (domain.ZoneReport, error) {
	if c.forceFail {
		return domain.ZoneReport{}, ErrForcedFailure
	}

	params := url.Values{
		"commune":  {q.CityCode},
		"profil":   {q.Profile},
		"zoneType": {q.ZoneType},
	}
	// Entries without coordinates are resolved by commune alone.
	if q.Lat != 0 || q.Lon != 0 {
		params.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	}
	fullURL := c.baseURL + "/api/zones?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.ZoneReport{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ZoneReport{}, fmt.Errorf("vigieau request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.logger.Info("no restriction order in force",
			"city_code", q.CityCode,
			"zone_type", q.ZoneType,
		)
		return domain.ZoneReport{ZoneType: q.ZoneType, NoActiveOrder: true}, nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.ZoneReport{}, fmt.Errorf("vigieau API error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ZoneReport{}, fmt.Errorf("read response: %w", err)
	}
	return decodeZone(body, q.ZoneType)
}

// decodeZone parses a zones payload. The endpoint answers with either a
// single zone object or a list of them; the first zone is used.
func decodeZone(body []byte, zoneType string) (domain.ZoneReport, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.ZoneReport{ZoneType: zoneType, NoActiveOrder: true}, nil
	}

	var z zone
	if trimmed[0] == '[' {
		var zones []zone
		if err := json.Unmarshal(trimmed, &zones); err != nil {
			return domain.ZoneReport{}, fmt.Errorf("decode response: %w", err)
		}
		if len(zones) == 0 {
			return domain.ZoneReport{ZoneType: zoneType, NoActiveOrder: true}, nil
		}
		z = zones[0]
	} else if err := json.Unmarshal(trimmed, &z); err != nil {
		return domain.ZoneReport{}, fmt.Errorf("decode response: %w", err)
	}

	report := z.toReport()
	if report.ZoneType == "" {
		report.ZoneType = zoneType
	}
	return report, nil
}

// VigiEau API response types.

type zone struct {
	ID         looseString `json:"idZone"`
	Type       string      `json:"type"`
	Name       string      `json:"nom"`
	Department looseString `json:"departement"`
	Order      *order      `json:"arrete"`
	Severity   *string     `json:"niveauGravite"`
	Usages     []usage     `json:"usages"`
}

type order struct {
	File          string `json:"cheminFichier"`
	FrameworkFile string `json:"cheminFichierArreteCadre"`
	ValidFrom     string `json:"dateDebutValidite"`
	ValidUntil    string `json:"dateFinValidite"`
}

type usage struct {
	Name        string `json:"nom"`
	Theme       string `json:"thematique"`
	Description string `json:"description"`
	Details     string `json:"details"`
	Start       string `json:"heureDebut"`
	End         string `json:"heureFin"`
}

func (z zone) toReport() domain.ZoneReport {
	report := domain.ZoneReport{
		ZoneID:     string(z.ID),
		ZoneType:   z.Type,
		ZoneName:   z.Name,
		Department: string(z.Department),
	}
	if z.Severity == nil || *z.Severity == "" {
		report.NoActiveOrder = true
		return report
	}
	report.SeverityLabel = *z.Severity
	if z.Order != nil {
		report.OrderFile = z.Order.File
		report.FrameworkOrderFile = z.Order.FrameworkFile
	}
	report.Records = make([]domain.RestrictionRecord, 0, len(z.Usages))
	for _, u := range z.Usages {
		report.Records = append(report.Records, domain.RestrictionRecord{
			UsageName:       u.Name,
			Theme:           u.Theme,
			SeverityText:    u.Description,
			Details:         u.Details,
			TimeWindowStart: u.Start,
			TimeWindowEnd:   u.End,
		})
	}
	return report
}

// looseString accepts a JSON string or number. Zone ids and department codes
// are served as either depending on the API version.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}
