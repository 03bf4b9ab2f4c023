package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theopfr/cachew-db/cachewerrors"
	"github.com/theopfr/cachew-db/value"
)

func mustParse(t *testing.T, payload string, declared value.DeclaredType) Command {
	t.Helper()
	cmd, err := ParsePayload(payload, declared)
	assert.NoError(t, err)
	return cmd
}

func TestParsePayload_Simple(t *testing.T) {
	assert.Equal(t, Ping, mustParse(t, "PING", value.Str).Kind)
	assert.Equal(t, Clear, mustParse(t, "CLEAR", value.Str).Kind)
	assert.Equal(t, Shutdown, mustParse(t, "SHUTDOWN", value.Str).Kind)
	assert.Equal(t, Len, mustParse(t, "LEN", value.Str).Kind)
}

func TestParsePayload_Auth(t *testing.T) {
	cmd := mustParse(t, "AUTH hunter2", value.Str)
	assert.Equal(t, Auth, cmd.Kind)
	assert.Equal(t, "hunter2", cmd.Password)

	_, err := ParsePayload("AUTH", value.Str)
	assert.Error(t, err)
	ce, _ := cachewerrors.As(err)
	assert.Equal(t, cachewerrors.CodeWrongAuthentication, ce.Code)
}

func TestParsePayload_SetAndGet(t *testing.T) {
	cmd := mustParse(t, `SET "my key" 7`, value.Int)
	assert.Equal(t, Set, cmd.Kind)
	assert.Equal(t, "my key", cmd.Key)
	assert.True(t, value.NewInt(7).Equal(cmd.Value))

	cmd = mustParse(t, "GET mykey", value.Int)
	assert.Equal(t, Get, cmd.Kind)
	assert.Equal(t, "mykey", cmd.Key)

	cmd = mustParse(t, "EXISTS mykey", value.Int)
	assert.Equal(t, Exists, cmd.Kind)
	assert.Equal(t, "mykey", cmd.Key)
}

func TestParsePayload_SetMany(t *testing.T) {
	cmd := mustParse(t, `SET MANY a 1, b 2, c 3`, value.Int)
	assert.Equal(t, SetMany, cmd.Kind)
	assert.Len(t, cmd.Pairs, 3)
	assert.Equal(t, "a", cmd.Pairs[0].Key)
	assert.True(t, value.NewInt(1).Equal(cmd.Pairs[0].Value))
	assert.Equal(t, "c", cmd.Pairs[2].Key)
	assert.True(t, value.NewInt(3).Equal(cmd.Pairs[2].Value))

	_, err := ParsePayload("SET MANY a 1,", value.Int)
	assert.Error(t, err)
}

func TestParsePayload_GetManyAndDelMany(t *testing.T) {
	cmd := mustParse(t, "GET MANY a b c", value.Int)
	assert.Equal(t, GetMany, cmd.Kind)
	assert.Equal(t, []string{"a", "b", "c"}, cmd.Keys)

	cmd = mustParse(t, "DEL MANY a b", value.Int)
	assert.Equal(t, DelMany, cmd.Kind)
	assert.Equal(t, []string{"a", "b"}, cmd.Keys)

	_, err := ParsePayload("GET MANY", value.Int)
	assert.Error(t, err)
}

func TestParsePayload_Range(t *testing.T) {
	cmd := mustParse(t, "GET RANGE alpha omega", value.Int)
	assert.Equal(t, GetRange, cmd.Kind)
	assert.Equal(t, "alpha", cmd.Lower)
	assert.Equal(t, "omega", cmd.Upper)

	cmd = mustParse(t, "DEL RANGE alpha omega", value.Int)
	assert.Equal(t, DelRange, cmd.Kind)

	_, err := ParsePayload("GET RANGE omega alpha", value.Int)
	assert.Error(t, err)
	ce, _ := cachewerrors.As(err)
	assert.Equal(t, cachewerrors.CodeInvalidRangeOrder, ce.Code)
	assert.Equal(t, cachewerrors.Database, ce.Kind)

	_, err = ParsePayload("GET RANGE alpha", value.Int)
	assert.Error(t, err)
	ce, _ = cachewerrors.As(err)
	assert.Equal(t, cachewerrors.CodeInvalidRange, ce.Code)
	assert.Equal(t, cachewerrors.Parser, ce.Kind)
}

func TestParsePayload_UnknownOperation(t *testing.T) {
	_, err := ParsePayload("FROBNICATE mykey", value.Int)
	assert.Error(t, err)
	ce, _ := cachewerrors.As(err)
	assert.Equal(t, cachewerrors.CodeUnknownQueryOperation, ce.Code)
}

func TestParsePayload_BadKey(t *testing.T) {
	_, err := ParsePayload("SET my,key 1", value.Int)
	assert.Error(t, err)
	ce, _ := cachewerrors.As(err)
	assert.Equal(t, cachewerrors.CodeUnexpectedCharacter, ce.Code)
}

func TestParsePayload_EmptyPayload(t *testing.T) {
	_, err := ParsePayload("", value.Int)
	assert.Error(t, err)
	ce, _ := cachewerrors.As(err)
	assert.Equal(t, cachewerrors.CodeUnknownQueryOperation, ce.Code)
}
