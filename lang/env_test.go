package lang

import (
	"slices"
	"strconv"
	"sync"
	"testing"
)

// TestEnv_SetGet verifies basic binding operations.
func TestEnv_SetGet(t *testing.T) {
	env := NewEnv()

	if _, ok := env.Get("x"); ok {
		t.Fatal("empty env reports binding for x")
	}

	env.Set("x", Integer(1))
	env.Set("x", Integer(2))

	v, ok := env.Get("x")
	if !ok || !sameValue(v, Integer(2)) {
		t.Fatalf("Get(x) = %v, %v; want 2, true", v, ok)
	}

	if env.Len() != 1 {
		t.Errorf("Len() = %d, want 1", env.Len())
	}

	if !env.Delete("x") {
		t.Error("Delete(x) = false, want true")
	}

	if env.Delete("x") {
		t.Error("second Delete(x) = true, want false")
	}

	if env.Has("x") {
		t.Error("Has(x) after delete")
	}
}

// TestEnv_Clone verifies that clones are independent in both directions.
func TestEnv_Clone(t *testing.T) {
	env := NewEnv()
	env.Set("a", Integer(1))
	env.Set("b", Integer(2))

	clone := env.Clone()
	clone.Set("a", Integer(10))
	clone.Set("c", Integer(3))
	env.Delete("b")

	if v, _ := env.Get("a"); !sameValue(v, Integer(1)) {
		t.Errorf("source a = %v, want 1", v)
	}

	if env.Has("c") {
		t.Error("clone binding leaked into source")
	}

	if !clone.Has("b") {
		t.Error("source delete leaked into clone")
	}

	if got, want := clone.Keys(), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("clone Keys() = %v, want %v", got, want)
	}
}

// TestEnv_KeysWithPrefix verifies ordered prefix listing.
func TestEnv_KeysWithPrefix(t *testing.T) {
	env := NewEnv()
	for _, k := range []string{"to_str", "abs", "to_int", "tan", "to_float", "typeof"} {
		env.Set(k, Void{})
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{prefix: "to_", want: []string{"to_float", "to_int", "to_str"}},
		{prefix: "t", want: []string{"tan", "to_float", "to_int", "to_str", "typeof"}},
		{prefix: "zz", want: nil},
		{prefix: "", want: []string{"abs", "tan", "to_float", "to_int", "to_str", "typeof"}},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := env.KeysWithPrefix(tt.prefix); !slices.Equal(got, tt.want) {
				t.Errorf("KeysWithPrefix(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

// TestEnv_List verifies the round trip through the reified form.
func TestEnv_List(t *testing.T) {
	env := NewEnv()
	env.Set("n", Integer(1))
	env.Set("s", Str("x"))

	back, ok := EnvFromList(env.List())
	if !ok {
		t.Fatal("EnvFromList rejected Env.List output")
	}

	if got, want := back.Keys(), env.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	for _, bad := range []Value{
		Integer(1),
		List{Integer(1)},
		List{List{Integer(1), Integer(2)}},
		List{List{Str("a")}},
	} {
		if _, ok := EnvFromList(bad); ok {
			t.Errorf("EnvFromList(%s) accepted", bad.Repr())
		}
	}
}

// TestEnv_AllSnapshot verifies that iteration tolerates modification.
func TestEnv_AllSnapshot(t *testing.T) {
	env := NewEnv()
	env.Set("a", Integer(1))
	env.Set("b", Integer(2))

	var seen []string

	for name := range env.All() {
		seen = append(seen, name)
		env.Set(name+"_copy", Integer(0))
	}

	if want := []string{"a", "b"}; !slices.Equal(seen, want) {
		t.Errorf("seen = %v, want %v", seen, want)
	}

	if env.Len() != 4 {
		t.Errorf("Len() = %d, want 4", env.Len())
	}
}

// TestEnv_Concurrent exercises concurrent clones and writes.
func TestEnv_Concurrent(t *testing.T) {
	env := NewEnv()
	env.Set("base", Integer(0))

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			for j := range 100 {
				c := env.Clone()
				c.Set("local", Integer(j))
				env.Set("w"+strconv.Itoa(i), Integer(j))
			}
		}(i)
	}

	wg.Wait()

	if env.Len() != 9 {
		t.Errorf("Len() = %d, want 9", env.Len())
	}
}

func BenchmarkEnv_Clone(b *testing.B) {
	env := NewEnv()
	for i := range 200 {
		env.Set("name"+strconv.Itoa(i), Integer(i))
	}

	b.ResetTimer()

	for b.Loop() {
		c := env.Clone()
		c.Set("x", Integer(1))
	}
}
