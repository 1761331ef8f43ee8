package bea

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBEA serves the single BEA endpoint, dispatching on the method
// query parameter with canned JSON documents.
type fakeBEA struct {
	responses map[string]string
	lastQuery url.Values
}

func (f *fakeBEA) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery = r.URL.Query()
		body, ok := f.responses[r.URL.Query().Get("method")]
		if !ok {
			http.Error(w, "unknown method", http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, body)
	})
}

func newTestClient(t *testing.T, f *fakeBEA) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return New("test-key", WithBaseURL(srv.URL+"/"))
}

func TestDatasets(t *testing.T) {
	f := &fakeBEA{responses: map[string]string{
		"GetDataSetList": `{"BEAAPI":{"Results":{"Dataset":[
			{"DatasetName":"NIPA","DatasetDescription":"Standard NIPA tables"},
			{"DatasetName":"Regional","DatasetDescription":"Income, product, and employment by state"}]}}}`,
	}}
	c := newTestClient(t, f)

	got, err := c.Datasets(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Dataset{Name: "Regional", Description: "Income, product, and employment by state"}, got[1])

	assert.Equal(t, "test-key", f.lastQuery.Get("UserID"))
	assert.Equal(t, "JSON", f.lastQuery.Get("ResultFormat"))
}

func TestDatasets_APIFault(t *testing.T) {
	f := &fakeBEA{responses: map[string]string{
		"GetDataSetList": `{"BEAAPI":{"Results":{"Error":{"APIErrorCode":"3","APIErrorDescription":"Invalid API key"}}}}`,
	}}
	c := newTestClient(t, f)

	_, err := c.Datasets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestDatasets_MissingList(t *testing.T) {
	f := &fakeBEA{responses: map[string]string{
		"GetDataSetList": `{"BEAAPI":{"Results":{}}}`,
	}}
	c := newTestClient(t, f)

	_, err := c.Datasets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset list missing")
}

func TestTableNames(t *testing.T) {
	f := &fakeBEA{responses: map[string]string{
		"GetParameterValues": `{"BEAAPI":{"Results":{"ParamValue":[
			{"Key":"SAINC1","Desc":"Personal Income Summary"},
			{"Key":"SAGDP2","Desc":"GDP by State"}]}}}`,
	}}
	c := newTestClient(t, f)

	got, err := c.TableNames(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Parameter{Key: "SAINC1", Description: "Personal Income Summary"}, got[0])

	assert.Equal(t, "Regional", f.lastQuery.Get("DataSetName"))
	assert.Equal(t, "TableName", f.lastQuery.Get("ParameterName"))
}

func TestLineCodes(t *testing.T) {
	f := &fakeBEA{responses: map[string]string{
		"GetParameterValuesFiltered": `{"BEAAPI":{"Results":{"ParamValue":[
			{"Key":"1","Desc":"Personal income"},
			{"Key":"2","Desc":"Population"}]}}}`,
	}}
	c := newTestClient(t, f)

	got, err := c.LineCodes(context.Background(), "SAINC1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, LineCode{Code: "2", Description: "Population"}, got[1])

	assert.Equal(t, "LineCode", f.lastQuery.Get("TargetParameter"))
	assert.Equal(t, "SAINC1", f.lastQuery.Get("TableName"))
}

func TestLineCodes_EmptyNamesTable(t *testing.T) {
	f := &fakeBEA{responses: map[string]string{
		"GetParameterValuesFiltered": `{"BEAAPI":{"Results":{"ParamValue":[]}}}`,
	}}
	c := newTestClient(t, f)

	_, err := c.LineCodes(context.Background(), "SAINC1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no line codes found for table SAINC1")
}

func TestStateData(t *testing.T) {
	f := &fakeBEA{responses: map[string]string{
		"GetData": `{"BEAAPI":{"Results":{
			"Statistic":"Personal Income","UnitOfMeasure":"Thousands of dollars",
			"Notes":[{"NoteRef":"SAINC1","NoteText":"Personal income is the income received by persons."}],
			"Data":[
				{"Code":"SAINC1-1","GeoFips":"01000","GeoName":"Alabama","TimePeriod":"2021","UNIT_MULT":"3","DataValue":"244,397,204"},
				{"Code":"SAINC1-1","GeoFips":"02000","GeoName":"Alaska *","TimePeriod":"2021","UNIT_MULT":"3","DataValue":"47,789,622"},
				{"Code":"SAINC1-1","GeoFips":"94000","GeoName":"Rocky Mountain","TimePeriod":"2021","UNIT_MULT":"3","DataValue":"(NA)"}
			]}}}`,
	}}
	c := newTestClient(t, f)

	tbl, stat, err := c.StateData(context.Background(), "SAINC1", "1")
	require.NoError(t, err)
	assert.Equal(t, "Personal Income", stat.Name)
	assert.Equal(t, "Thousands of dollars", stat.Unit)
	require.Len(t, stat.Notes, 1)
	assert.Contains(t, stat.Notes[0], "income received")

	assert.Equal(t, "STATE", f.lastQuery.Get("GeoFIPS"))
	assert.Equal(t, "ALL", f.lastQuery.Get("Year"))
	assert.Equal(t, "1", f.lastQuery.Get("LineCode"))

	assert.Equal(t, []string{"STATE", "YEAR", "LINE_CODE", "UNIT_MULT", "VALUE", "VALUE_MULT"}, tbl.Columns())
	require.Equal(t, 3, tbl.Len())

	assert.Equal(t, "Alabama", tbl.Value(0, "STATE").String())
	year, ok := tbl.Value(0, "YEAR").Float()
	require.True(t, ok)
	assert.Equal(t, 2021.0, year)
	value, ok := tbl.Value(0, "VALUE").Float()
	require.True(t, ok, "thousands separators parse as one number")
	assert.Equal(t, 244397204.0, value)
	scaled, ok := tbl.Value(0, "VALUE_MULT").Float()
	require.True(t, ok)
	assert.Equal(t, 244397204.0*1000, scaled)

	assert.Equal(t, "Alaska", tbl.Value(1, "STATE").String(), "footnote marker replaced by census name")

	assert.Equal(t, "Rocky Mountain", tbl.Value(2, "STATE").String(), "aggregate regions pass through as reported")
	assert.True(t, tbl.Value(2, "VALUE").IsNull(), "(NA) keeps its row with a null value")
	assert.True(t, tbl.Value(2, "VALUE_MULT").IsNull())
	mult, ok := tbl.Value(2, "UNIT_MULT").Float()
	require.True(t, ok)
	assert.Equal(t, 3.0, mult)
}

func TestStateData_BadUnitMult(t *testing.T) {
	f := &fakeBEA{responses: map[string]string{
		"GetData": `{"BEAAPI":{"Results":{
			"Statistic":"Personal Income","UnitOfMeasure":"Thousands of dollars",
			"Data":[
				{"Code":"SAINC1-1","GeoFips":"01000","GeoName":"Alabama","TimePeriod":"2021","UNIT_MULT":"","DataValue":"42"},
				{"Code":"SAINC1-1","GeoFips":"02000","GeoName":"Alaska","TimePeriod":"2021","UNIT_MULT":"n/a","DataValue":"7"}
			]}}}`,
	}}
	c := newTestClient(t, f)

	tbl, _, err := c.StateData(context.Background(), "SAINC1", "1")
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	for row := 0; row < tbl.Len(); row++ {
		assert.True(t, tbl.Value(row, "UNIT_MULT").IsNull(), "unparseable multiplier becomes a null cell")
		assert.True(t, tbl.Value(row, "VALUE_MULT").IsNull(), "no scaled value without a multiplier")
		_, ok := tbl.Value(row, "VALUE").Float()
		assert.True(t, ok, "the raw value is kept")
	}
}

func TestStateData_MissingData(t *testing.T) {
	f := &fakeBEA{responses: map[string]string{
		"GetData": `{"BEAAPI":{"Results":{}}}`,
	}}
	c := newTestClient(t, f)

	_, _, err := c.StateData(context.Background(), "SAINC1", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data for line code 7 in table SAINC1")
}

func TestStateData_APIFault(t *testing.T) {
	f := &fakeBEA{responses: map[string]string{
		"GetData": `{"BEAAPI":{"Results":{"Error":{"APIErrorCode":"204","APIErrorDescription":"LineCode does not exist"}}}}`,
	}}
	c := newTestClient(t, f)

	_, _, err := c.StateData(context.Background(), "SAINC1", "999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LineCode does not exist")
	assert.Contains(t, err.Error(), "table SAINC1")
}

func TestStateName(t *testing.T) {
	name, ok := StateName("01000")
	require.True(t, ok)
	assert.Equal(t, "Alabama", name)

	name, ok = StateName("72")
	require.True(t, ok)
	assert.Equal(t, "Puerto Rico", name)

	_, ok = StateName("00000")
	assert.False(t, ok, "United States aggregate is not a state")

	_, ok = StateName("94000")
	assert.False(t, ok, "BEA region codes are not states")
}
