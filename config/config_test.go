package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoZeroFields(t *testing.T) {
	cfg := Default()

	for _, field := range visit(newVar(*cfg), "Config", false) {
		assert.Fail(t, "zero-value field", field)
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("overrides", func(t *testing.T) {
		t.Setenv("REQQUEUE_HOST", "127.0.0.1")
		t.Setenv("REQQUEUE_READ_BUFFER", "512")
		t.Setenv("REQQUEUE_WRITE_TIMEOUT", "2s")

		cfg := Default()
		require.NoError(t, cfg.FromEnv())
		require.Equal(t, "127.0.0.1", cfg.NET.Host)
		require.Equal(t, 512, cfg.NET.ReadBufferSize)
		require.Equal(t, 2*time.Second, cfg.NET.WriteTimeout)
	})

	t.Run("malformed value is kept", func(t *testing.T) {
		t.Setenv("REQQUEUE_BUFFER_MAX", "lots")

		cfg := Default()
		require.Error(t, cfg.FromEnv())
		require.Equal(t, Default().Buffer.Maximal, cfg.Buffer.Maximal)
	})
}

type variable struct {
	Type  reflect.Type
	Value reflect.Value
}

func newVar(a any) variable {
	return variable{reflect.TypeOf(a), reflect.ValueOf(a)}
}

func visit(a variable, name string, nullable bool) (fields []string) {
	if a.Type.Kind() == reflect.Struct {
		for field := range a.Value.NumField() {
			v1 := variable{a.Type.Field(field).Type, a.Value.Field(field)}
			fieldname := a.Type.Field(field).Name
			isNullable := a.Type.Field(field).Tag.Get("test") == "nullable"
			fields = append(fields, visit(v1, name+"."+fieldname, isNullable)...)
		}

		return fields
	}

	if a.Value.IsZero() && !nullable {
		return []string{name}
	}

	return nil
}
