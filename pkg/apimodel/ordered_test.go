package apimodel_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/bindinfo/pkg/apimodel"
)

func TestOrdered(t *testing.T) {
	t.Parallel()

	t.Run("overwrite_keeps_position", func(t *testing.T) {
		t.Parallel()

		o := apimodel.NewOrdered[int]()
		o.Set("b", 1)
		o.Set("a", 2)
		o.Set("b", 3)

		assert.Equal(t, []string{"b", "a"}, o.Keys())

		v, ok := o.Get("b")
		require.True(t, ok)
		assert.Equal(t, 3, v)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		o := apimodel.NewOrdered[int]()
		o.Set("x", 1)
		o.Set("y", 2)
		o.Set("z", 3)
		o.Delete("y")
		o.Delete("missing")

		assert.Equal(t, []string{"x", "z"}, o.Keys())
		assert.False(t, o.Has("y"))
	})

	t.Run("nil_receiver", func(t *testing.T) {
		t.Parallel()

		var o *apimodel.Ordered[int]

		assert.Zero(t, o.Len())
		assert.Nil(t, o.Keys())
		assert.False(t, o.Has("x"))

		for range o.All() {
			t.Fatal("nil map must not yield")
		}
	})

	t.Run("clone_is_independent", func(t *testing.T) {
		t.Parallel()

		o := apimodel.NewOrdered[int]()
		o.Set("x", 1)

		clone := o.Clone()
		clone.Set("y", 2)

		assert.Equal(t, 1, o.Len())
		assert.Equal(t, 2, clone.Len())
	})

	t.Run("json_order", func(t *testing.T) {
		t.Parallel()

		o := apimodel.NewOrdered[int]()
		o.Set("zeta", 1)
		o.Set("alpha", 2)

		data, err := json.Marshal(o)
		require.NoError(t, err)
		assert.Equal(t, `{"zeta":1,"alpha":2}`, string(data))

		empty, err := json.Marshal(apimodel.NewOrdered[int]())
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(empty))
	})

	t.Run("yaml_order_nested", func(t *testing.T) {
		t.Parallel()

		inner := apimodel.NewOrdered[int64]()
		inner.Set("Z_ONE", 0)
		inner.Set("A_TWO", 1)

		o := apimodel.NewOrdered[*apimodel.Ordered[int64]]()
		o.Set("Zeta", inner)
		o.Set("Alpha", apimodel.NewOrdered[int64]())

		data, err := yaml.Marshal(o)
		require.NoError(t, err)
		assert.Equal(t, "Zeta:\n    Z_ONE: 0\n    A_TWO: 1\nAlpha: {}\n", string(data))

		jsonData, err := json.Marshal(o)
		require.NoError(t, err)
		assert.Equal(t, `{"Zeta":{"Z_ONE":0,"A_TWO":1},"Alpha":{}}`, string(jsonData))
	})

	t.Run("zero_value", func(t *testing.T) {
		t.Parallel()

		var o apimodel.Ordered[int]

		data, err := json.Marshal(&o)
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(data))

		o.Set("k", 1)
		assert.Equal(t, []string{"k"}, o.Keys())
	})
}
