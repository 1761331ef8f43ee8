// Package bea is a client for the Bureau of Economic Analysis data API,
// covering the Regional dataset: dataset discovery, table and line-code
// listings, and state-level series retrieval with unit-multiplier
// scaling applied.
package bea

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

// DefaultBaseURL is the single endpoint the BEA API serves every method
// from; the method name travels as a query parameter.
const DefaultBaseURL = "https://apps.bea.gov/api/data/"

// regionalDataset is the only dataset the typed helpers query.
const regionalDataset = "Regional"

// Client issues BEA API requests. One blocking request at a time; no
// retries, no rate limiting.
type Client struct {
	key     string
	baseURL string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New creates a BEA client with the given API key.
func New(key string, opts ...Option) *Client {
	c := &Client{
		key:     key,
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dataset is one entry of the API's dataset catalogue.
type Dataset struct {
	Name        string
	Description string
}

// Parameter is one allowed value of an API parameter, such as a table
// name of the Regional dataset.
type Parameter struct {
	Key         string
	Description string
}

// LineCode identifies one statistic line within a Regional table.
type LineCode struct {
	Code        string
	Description string
}

// Statistic describes the series a StateData call returned: the
// statistic's name, its unit of measure, and the table notes.
type Statistic struct {
	Name  string
	Unit  string
	Notes []string
}

type apiFault struct {
	Description string `json:"APIErrorDescription"`
}

type datasetListResponse struct {
	BEAAPI struct {
		Results struct {
			Error   *apiFault `json:"Error"`
			Dataset []struct {
				Name        string `json:"DatasetName"`
				Description string `json:"DatasetDescription"`
			} `json:"Dataset"`
		} `json:"Results"`
	} `json:"BEAAPI"`
}

type paramValueResponse struct {
	BEAAPI struct {
		Results struct {
			Error      *apiFault `json:"Error"`
			ParamValue []struct {
				Key  string `json:"Key"`
				Desc string `json:"Desc"`
			} `json:"ParamValue"`
		} `json:"Results"`
	} `json:"BEAAPI"`
}

type getDataResponse struct {
	BEAAPI struct {
		Results struct {
			Error         *apiFault `json:"Error"`
			Statistic     string    `json:"Statistic"`
			UnitOfMeasure string    `json:"UnitOfMeasure"`
			Notes         []struct {
				NoteText string `json:"NoteText"`
			} `json:"Notes"`
			Data []struct {
				GeoFIPS    string `json:"GeoFips"`
				GeoName    string `json:"GeoName"`
				TimePeriod string `json:"TimePeriod"`
				UnitMult   string `json:"UNIT_MULT"`
				DataValue  string `json:"DataValue"`
			} `json:"Data"`
		} `json:"Results"`
	} `json:"BEAAPI"`
}

// Datasets lists every dataset the API exposes (GetDataSetList).
func (c *Client) Datasets(ctx context.Context) ([]Dataset, error) {
	body, err := c.call(ctx, "GetDataSetList", nil)
	if err != nil {
		return nil, err
	}

	var resp datasetListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode dataset list: %w", err)
	}
	if fault := resp.BEAAPI.Results.Error; fault != nil {
		return nil, apiError("list datasets", fault)
	}
	if len(resp.BEAAPI.Results.Dataset) == 0 {
		return nil, errors.New("dataset list missing from response")
	}

	out := make([]Dataset, 0, len(resp.BEAAPI.Results.Dataset))
	for _, d := range resp.BEAAPI.Results.Dataset {
		out = append(out, Dataset{Name: d.Name, Description: d.Description})
	}
	return out, nil
}

// TableNames lists the tables of the Regional dataset
// (GetParameterValues on the TableName parameter).
func (c *Client) TableNames(ctx context.Context) ([]Parameter, error) {
	params := url.Values{}
	params.Set("DataSetName", regionalDataset)
	params.Set("ParameterName", "TableName")

	body, err := c.call(ctx, "GetParameterValues", params)
	if err != nil {
		return nil, err
	}

	var resp paramValueResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode table list: %w", err)
	}
	if fault := resp.BEAAPI.Results.Error; fault != nil {
		return nil, apiError("list tables", fault)
	}
	if len(resp.BEAAPI.Results.ParamValue) == 0 {
		return nil, errors.New("table list missing from response")
	}

	out := make([]Parameter, 0, len(resp.BEAAPI.Results.ParamValue))
	for _, v := range resp.BEAAPI.Results.ParamValue {
		out = append(out, Parameter{Key: v.Key, Description: v.Desc})
	}
	return out, nil
}

// LineCodes lists the statistic lines of one Regional table
// (GetParameterValuesFiltered on the LineCode parameter).
func (c *Client) LineCodes(ctx context.Context, table string) ([]LineCode, error) {
	params := url.Values{}
	params.Set("DataSetName", regionalDataset)
	params.Set("TargetParameter", "LineCode")
	params.Set("TableName", table)

	body, err := c.call(ctx, "GetParameterValuesFiltered", params)
	if err != nil {
		return nil, err
	}

	var resp paramValueResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode line codes: %w", err)
	}
	if fault := resp.BEAAPI.Results.Error; fault != nil {
		return nil, apiError("line codes for table "+table, fault)
	}
	if len(resp.BEAAPI.Results.ParamValue) == 0 {
		return nil, fmt.Errorf("no line codes found for table %s", table)
	}

	out := make([]LineCode, 0, len(resp.BEAAPI.Results.ParamValue))
	for _, v := range resp.BEAAPI.Results.ParamValue {
		out = append(out, LineCode{Code: v.Key, Description: v.Desc})
	}
	return out, nil
}

// Output columns of StateData.
var stateDataColumns = []string{"STATE", "YEAR", "LINE_CODE", "UNIT_MULT", "VALUE", "VALUE_MULT"}

// StateData retrieves one statistic line of a Regional table for every
// state and every year (GetData with GeoFIPS=STATE, Year=ALL). Each
// observation becomes one row with the raw reported VALUE and
// VALUE_MULT, the value scaled by its power-of-10 unit multiplier.
// Values the API reports as unavailable, such as "(NA)", become null
// VALUE/VALUE_MULT cells but keep their STATE and YEAR.
func (c *Client) StateData(ctx context.Context, table, lineCode string) (*tabular.Table, Statistic, error) {
	params := url.Values{}
	params.Set("DataSetName", regionalDataset)
	params.Set("TableName", table)
	params.Set("LineCode", lineCode)
	params.Set("GeoFIPS", "STATE")
	params.Set("Year", "ALL")

	body, err := c.call(ctx, "GetData", params)
	if err != nil {
		return nil, Statistic{}, err
	}

	var resp getDataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, Statistic{}, fmt.Errorf("decode state data: %w", err)
	}
	results := resp.BEAAPI.Results
	if results.Error != nil {
		return nil, Statistic{}, apiError(fmt.Sprintf("data for line code %s in table %s", lineCode, table), results.Error)
	}
	if len(results.Data) == 0 {
		return nil, Statistic{}, fmt.Errorf("no data for line code %s in table %s", lineCode, table)
	}

	stat := Statistic{Name: results.Statistic, Unit: results.UnitOfMeasure}
	for _, n := range results.Notes {
		stat.Notes = append(stat.Notes, n.NoteText)
	}

	out := tabular.MustNew(stateDataColumns...)
	lineCell := numericCell(lineCode)
	for _, d := range results.Data {
		unitMult, err := strconv.Atoi(strings.TrimSpace(d.UnitMult))
		multOK := err == nil
		value, valueOK := parseDataValue(d.DataValue)

		multCell, valueCell, scaledCell := tabular.Null(), tabular.Null(), tabular.Null()
		if multOK {
			multCell = tabular.Number(float64(unitMult))
		}
		if valueOK {
			valueCell = tabular.Number(value)
			if multOK {
				scaledCell = tabular.Number(value * math.Pow10(unitMult))
			}
		}
		out.AppendRow(
			tabular.String(stateName(d.GeoFIPS, d.GeoName)),
			numericCell(d.TimePeriod),
			lineCell,
			multCell,
			valueCell,
			scaledCell,
		)
	}
	return out, stat, nil
}

// parseDataValue converts a reported DataValue to a float. The API
// formats values with thousands separators and marks missing
// observations as "(NA)".
func parseDataValue(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// numericCell turns a string into a number cell when it parses as one,
// keeping years and line codes sortable. Non-numeric input stays a
// string cell.
func numericCell(s string) tabular.Cell {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return tabular.Number(v)
	}
	return tabular.String(s)
}

// stateName resolves a GeoFIPS code to the census state name. The API
// suffixes GeoName with footnote markers for some regions, so the
// census name wins when the code is a known state; aggregates such as
// "United States" pass through as reported.
func stateName(geoFIPS, geoName string) string {
	if name, ok := StateName(geoFIPS); ok {
		return name
	}
	return geoName
}

// call issues one GET against the endpoint with the credential, method
// and result-format parameters merged in.
func (c *Client) call(ctx context.Context, method string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("UserID", c.key)
	q.Set("method", method)
	q.Set("ResultFormat", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("BEA API returned %d for %s", resp.StatusCode, method)
	}
	return body, nil
}

func apiError(op string, fault *apiFault) error {
	if fault.Description != "" {
		return fmt.Errorf("%s: BEA API error: %s", op, fault.Description)
	}
	return fmt.Errorf("%s: BEA API error", op)
}
