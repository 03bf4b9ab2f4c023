package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theopfr/cachew-db/cachewerrors"
	"github.com/theopfr/cachew-db/value"
)

func TestFormatError(t *testing.T) {
	err := cachewerrors.KeyNotFound("missing")
	got := FormatError(err)
	assert.Equal(t, "CASP/ERROR/DatabaseError 'keyNotFound': key \"missing\" does not exist/\n", got)
}

func TestFormatOK(t *testing.T) {
	assert.Equal(t, "CASP/OK/SET/\n", FormatOK(Set.WireName()))
	assert.Equal(t, "CASP/OK/SHUTDOWN/\n", FormatOK(Shutdown.WireName()))
}

func TestFormatOKMessage(t *testing.T) {
	assert.Equal(t, "CASP/OK/AUTH/Authentication succeeded./\n", FormatOKMessage(Auth.WireName(), "Authentication succeeded."))
	assert.Equal(t, "CASP/OK/PING/PONG/\n", FormatOKMessage(Ping.WireName(), "PONG"))
}

func TestFormatValueAndHelpers(t *testing.T) {
	assert.Equal(t, "CASP/OK/STR/GET/\"hi\"/\n", FormatValue(Get.WireName(), value.Str, value.NewStr("hi").Render()))
	assert.Equal(t, "CASP/OK/INT/LEN/3/\n", FormatLen(3))
	assert.Equal(t, "CASP/OK/BOOL/EXISTS/true/\n", FormatExists(true))
	assert.Equal(t, "CASP/OK/BOOL/EXISTS/false/\n", FormatExists(false))
}

func TestRenderValues(t *testing.T) {
	vals := []value.Value{value.NewStr("v1"), value.NewStr("v2"), value.NewStr("v3")}
	assert.Equal(t, `"v1","v2","v3"`, RenderValues(vals))
}
