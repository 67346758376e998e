package env

import "testing"

func TestGetInt(t *testing.T) {
	e := &EnvService{}

	t.Setenv("TEST_WIDTH", "1920")
	if got := e.GetInt("TEST_WIDTH", 1280); got != 1920 {
		t.Errorf("GetInt = %d, want 1920", got)
	}
	if got := e.GetInt("TEST_WIDTH_UNSET", 1280); got != 1280 {
		t.Errorf("GetInt default = %d, want 1280", got)
	}

	t.Setenv("TEST_WIDTH_BAD", "wide")
	if got := e.GetInt("TEST_WIDTH_BAD", 1280); got != 1280 {
		t.Errorf("GetInt on junk = %d, want the default 1280", got)
	}
}

func TestGetBool(t *testing.T) {
	e := &EnvService{}

	t.Setenv("TEST_FLAG", "true")
	if !e.GetBool("TEST_FLAG", false) {
		t.Error("GetBool should parse true")
	}
	if !e.GetBool("TEST_FLAG_UNSET", true) {
		t.Error("GetBool should fall back to the default")
	}

	t.Setenv("TEST_FLAG_BAD", "yep")
	if e.GetBool("TEST_FLAG_BAD", false) {
		t.Error("GetBool on junk should fall back to the default")
	}
}

func TestGet(t *testing.T) {
	e := &EnvService{}

	t.Setenv("TEST_VALUE", "hello")
	if got := e.Get("TEST_VALUE"); got != "hello" {
		t.Errorf("Get = %q, want %q", got, "hello")
	}
	if got := e.Get("TEST_VALUE_UNSET"); got != "" {
		t.Errorf("Get on unset = %q, want empty", got)
	}
}
