package webserver

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"watersensor-go/services/acquisition"
	"watersensor-go/types"
)

func newTestServer(t *testing.T, st *acquisition.Store, nowMs int64) *Server {
	t.Helper()
	s := New(":0", st, nil)
	if nowMs != 0 {
		s.nowMs = func() int64 { return nowMs }
	}
	return s
}

func getBody(t *testing.T, s *Server, path string) (int, apiBody) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body apiBody
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestDataBeforeFirstPollIsAllNull(t *testing.T) {
	s := newTestServer(t, acquisition.NewStore(), 0)

	code, body := getBody(t, s, "/api/data")
	require.Equal(t, http.StatusOK, code)
	require.Nil(t, body.WaterLevelM)
	require.Nil(t, body.ThermocoupleC)
	require.Nil(t, body.AmbientC)
	require.Nil(t, body.AmbientHumidityPct)
	for _, k := range types.AllKinds {
		require.Equal(t, "not_sampled", body.Status[k.String()])
		require.Contains(t, body.AgeS, k.String())
	}
}

func TestDataReflectsStoreWithAges(t *testing.T) {
	st := acquisition.NewStore()
	st.Update(types.Ok(types.WaterLevel, 1.5, 10_000))
	st.Update(types.Ok(types.ThermocoupleTemp, 24.25, 12_000))
	st.Update(types.Ok(types.AmbientTemp, 23.1, 13_000))
	st.Update(types.Ok(types.AmbientHumidity, 65.2, 13_000))

	s := newTestServer(t, st, 15_000)
	code, body := getBody(t, s, "/api/data")
	require.Equal(t, http.StatusOK, code)

	require.InDelta(t, 1.5, *body.WaterLevelM, 1e-9)
	require.InDelta(t, 24.25, *body.ThermocoupleC, 1e-9)
	require.InDelta(t, 23.1, *body.AmbientC, 1e-9)
	require.InDelta(t, 65.2, *body.AmbientHumidityPct, 1e-9)

	require.Equal(t, 5.0, body.AgeS["water_level"])
	require.Equal(t, 3.0, body.AgeS["thermocouple"])
	require.Equal(t, 2.0, body.AgeS["ambient_humidity"])
	require.Equal(t, "ok", body.Status["water_level"])
}

func TestDataFaultKeepsStaleValueVisible(t *testing.T) {
	st := acquisition.NewStore()
	st.Update(types.Ok(types.ThermocoupleTemp, 24.0, 10_000))
	st.Update(types.Failed(types.ThermocoupleTemp, types.StatusFault, 14_000))

	s := newTestServer(t, st, 15_000)
	_, body := getBody(t, s, "/api/data")

	require.Equal(t, "fault", body.Status["thermocouple"])
	require.NotNil(t, body.ThermocoupleC, "last good value stays displayed, flagged by status")
	require.Equal(t, 5.0, body.AgeS["thermocouple"], "age tracks the displayed value, not the fault")
}

func TestDataFaultWithNoHistoryIsNull(t *testing.T) {
	st := acquisition.NewStore()
	st.Update(types.Failed(types.ThermocoupleTemp, types.StatusFault, 14_000))

	s := newTestServer(t, st, 15_000)
	_, body := getBody(t, s, "/api/data")

	require.Nil(t, body.ThermocoupleC)
	require.Equal(t, "fault", body.Status["thermocouple"])
}

func TestIndexServed(t *testing.T) {
	s := newTestServer(t, acquisition.NewStore(), 0)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Reservoir monitor")
}

func TestUnknownPathIs404(t *testing.T) {
	s := newTestServer(t, acquisition.NewStore(), 0)
	code, _ := getBody(t, s, "/unknown/path")
	require.Equal(t, http.StatusNotFound, code)
}

func TestMalformedRequestLineGets400(t *testing.T) {
	s := newTestServer(t, acquisition.NewStore(), 0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, err := net.Dial("tcp", ts.Listener.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("GARBAGE\r\n\r\n"))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err, "a malformed request must get a response, not a hang")
	require.True(t, strings.Contains(line, "400"), "got: %q", line)
}
