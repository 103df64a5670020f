package datocms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/util"

	"go.uber.org/zap"
)

// 位置模型在 CMS 中改过几次名字，按顺序逐个尝试
const singleLocationField = "locationtest"

var locationListFields = []string{
	"allLocationtests",
	"allLocationTests",
	"allLocationtest",
	"allTestLocations",
}

const locationSelection = `
    id
    _createdAt
    stadur {
      latitude
      longitude
    }
    berlin {
      latitude
      longitude
    }`

const locationByIDQuery = `
query LocationTestById($id: ItemId) {
  locationtest(filter: { id: { eq: $id } }) {` + locationSelection + `
  }
}`

const queryFieldsQuery = `
query QueryFields {
  __schema {
    queryType {
      fields {
        name
      }
    }
  }
}`

const (
	pointIceland = "iceland"
	pointBerlin  = "berlin"
	demoID       = "demo-1"
)

type locationRecord struct {
	ID        string          `json:"id"`
	CreatedAt string          `json:"_createdAt"`
	Stadur    *model.GeoPoint `json:"stadur"`
	Berlin    *model.GeoPoint `json:"berlin"`
}

func (r locationRecord) point(kind string) (model.TestLocation, bool) {
	p, label, field := r.Stadur, "Ísland", "stadur"
	if kind == pointBerlin {
		p, label, field = r.Berlin, "Berlín", "berlín"
	}
	if p == nil {
		return model.TestLocation{}, false
	}
	return model.TestLocation{
		ID:          r.ID + "-" + kind,
		Name:        fmt.Sprintf("%s: %.4f, %.4f", label, p.Latitude, p.Longitude),
		Description: fmt.Sprintf("Staðsetning--> DatoCMS staðsetningarmódel (%s reitur)", field),
		Location:    *p,
		CreatedAt:   r.CreatedAt,
	}, true
}

func (r locationRecord) points() []model.TestLocation {
	out := make([]model.TestLocation, 0, 2)
	for _, kind := range []string{pointIceland, pointBerlin} {
		if loc, ok := r.point(kind); ok {
			out = append(out, loc)
		}
	}
	return out
}

// DemoLocation is returned when the CMS holds no location at all.
func DemoLocation() model.TestLocation {
	return model.TestLocation{
		ID:          demoID,
		Name:        "Sýnidæmi (Berlín)",
		Description: `Þetta er sýnidæmi. Vinsamlegast bættu við raunverulegum staðsetningum í DatoCMS með því að búa til "LocationTest" færslu með "stadur" eða "berlin" reit.`,
		Location:    model.GeoPoint{Latitude: 52.520008, Longitude: 13.404954},
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// FetchAllTestLocations flattens every location record into its Iceland and
// Berlin points. It never returns an empty list.
func (c *Client) FetchAllTestLocations(ctx context.Context) []model.TestLocation {
	out := make([]model.TestLocation, 0)
	for _, r := range c.probeLocations(ctx) {
		out = append(out, r.points()...)
	}
	if len(out) == 0 {
		c.log.Info("no cms locations found, using demo location")
		return []model.TestLocation{DemoLocation()}
	}
	c.log.Debug("cms locations found", zap.Int("count", len(out)))
	return out
}

// FetchTestLocationByID takes ids of the form "<record>-iceland" or
// "<record>-berlin"; a bare record id means the Iceland point.
func (c *Client) FetchTestLocationByID(ctx context.Context, id string) (model.TestLocation, error) {
	if id == demoID {
		return DemoLocation(), nil
	}
	recordID, kind, _ := strings.Cut(id, "-")
	if kind != pointBerlin {
		kind = pointIceland
	}

	var data struct {
		LocationTest *locationRecord `json:"locationtest"`
	}
	err := c.Request(ctx, Params{
		Query:     locationByIDQuery,
		Variables: map[string]any{"id": recordID},
	}, &data)
	if err == nil && data.LocationTest != nil {
		if loc, ok := data.LocationTest.point(kind); ok {
			return loc, nil
		}
	}

	// the record may live under one of the renamed models
	for _, loc := range c.FetchAllTestLocations(ctx) {
		if loc.ID == recordID+"-"+kind {
			return loc, nil
		}
	}
	c.log.Info("cms location not found", zap.String("id", id))
	return model.TestLocation{}, fmt.Errorf("location %q: %w", id, util.ErrNotFound)
}

func (c *Client) probeLocations(ctx context.Context) []locationRecord {
	tried := map[string]bool{}
	try := func(field string) []locationRecord {
		tried[field] = true
		records, err := c.queryLocationField(ctx, field)
		if err != nil {
			return nil
		}
		return records
	}

	if records := try(singleLocationField); len(records) > 0 {
		return records
	}
	for _, field := range locationListFields {
		if records := try(field); len(records) > 0 {
			c.log.Debug("cms locations found via list field", zap.String("field", field))
			return records
		}
	}

	for _, field := range c.discoverLocationFields(ctx) {
		if tried[field] {
			continue
		}
		if records := try(field); len(records) > 0 {
			c.log.Info("cms locations found via introspection", zap.String("field", field))
			return records
		}
	}
	return nil
}

func (c *Client) queryLocationField(ctx context.Context, field string) ([]locationRecord, error) {
	query := fmt.Sprintf("query {\n  %s {%s\n  }\n}", field, locationSelection)
	var data map[string]json.RawMessage
	if err := c.Request(ctx, Params{Query: query}, &data); err != nil {
		return nil, err
	}
	return decodeLocations(data[field]), nil
}

// discoverLocationFields lists the query fields whose name mentions
// "location", skipping the _meta helpers.
func (c *Client) discoverLocationFields(ctx context.Context) []string {
	var data struct {
		Schema struct {
			QueryType struct {
				Fields []struct {
					Name string `json:"name"`
				} `json:"fields"`
			} `json:"queryType"`
		} `json:"__schema"`
	}
	if err := c.Request(ctx, Params{Query: queryFieldsQuery}, &data); err != nil {
		return nil
	}
	var out []string
	for _, f := range data.Schema.QueryType.Fields {
		name := f.Name
		if strings.HasPrefix(name, "_") || strings.HasSuffix(name, "Meta") {
			continue
		}
		if strings.Contains(strings.ToLower(name), "location") {
			out = append(out, name)
		}
	}
	return out
}

// decodeLocations accepts either a single record or a list of records.
func decodeLocations(raw json.RawMessage) []locationRecord {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '[':
		var list []locationRecord
		if err := json.Unmarshal(raw, &list); err == nil {
			return list
		}
	case '{':
		var one locationRecord
		if err := json.Unmarshal(raw, &one); err == nil {
			return []locationRecord{one}
		}
	}
	return nil
}
