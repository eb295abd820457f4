package alert_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/influxdata/snsalert/alert"
)

func TestConfiguration_GetInt(t *testing.T) {
	c := alert.NewConfiguration(map[string]interface{}{
		"int":      8080,
		"int64":    int64(8081),
		"float":    8082.0,
		"fraction": 1.5,
		"number":   json.Number("8083"),
		"string":   " 8084 ",
		"bad":      "eighty",
		"bool":     true,
	})
	testCases := []struct {
		key  string
		want int
	}{
		{key: "int", want: 8080},
		{key: "int64", want: 8081},
		{key: "float", want: 8082},
		{key: "fraction", want: 3128},
		{key: "number", want: 8083},
		{key: "string", want: 8084},
		{key: "bad", want: 3128},
		{key: "bool", want: 3128},
		{key: "missing", want: 3128},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.key, func(t *testing.T) {
			if got := c.GetInt(tc.key, 3128); got != tc.want {
				t.Errorf("unexpected int: got %d want %d", got, tc.want)
			}
		})
	}
}

func TestConfiguration_StringIsSet(t *testing.T) {
	c := alert.NewConfiguration(map[string]interface{}{
		"set":    "value",
		"empty":  "",
		"number": 1,
	})
	if !c.StringIsSet("set") {
		t.Error("expected set to be set")
	}
	for _, k := range []string{"empty", "number", "missing"} {
		if c.StringIsSet(k) {
			t.Errorf("expected %s to be unset", k)
		}
	}
	if !c.Has("empty") || c.Has("missing") {
		t.Error("unexpected Has result")
	}
}

func TestConfiguration_SourceIsCopied(t *testing.T) {
	src := map[string]interface{}{"to": "alerts"}
	c := alert.NewConfiguration(src)
	src["to"] = "changed"

	got := c.Source()
	got["from"] = "injected"

	if diff := cmp.Diff(map[string]interface{}{"to": "alerts"}, c.Source()); diff != "" {
		t.Errorf("configuration was mutated (-want +got):\n%s", diff)
	}
}

func TestConfigurationRequest_Order(t *testing.T) {
	var r alert.ConfigurationRequest
	r.AddField(alert.NewTextField("b", "B", "", "", alert.NotOptional))
	r.AddField(alert.NewTextField("a", "A", "", "", alert.IsOptional, alert.IsPassword))
	r.AddField(alert.NewNumberField("c", "C", 7, "", alert.IsOptional))

	var names []string
	for _, f := range r.Fields() {
		names = append(names, f.Name())
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, names); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}

	a, ok := r.Field("a")
	if !ok {
		t.Fatal("expected field a")
	}
	if !alert.HasAttribute(a, alert.IsPassword) {
		t.Error("expected a to be a password field")
	}
	c, _ := r.Field("c")
	if c.Type() != alert.FieldNumber || c.DefaultValue() != 7 {
		t.Errorf("unexpected number field %v %v", c.Type(), c.DefaultValue())
	}
	if _, ok := r.Field("missing"); ok {
		t.Error("unexpected field")
	}
}

func TestConfigurationRequest_MarshalJSON(t *testing.T) {
	var r alert.ConfigurationRequest
	r.AddField(alert.NewTextField("secret", "Secret", "", "a secret", alert.NotOptional, alert.IsPassword))
	r.AddField(alert.NewNumberField("port", "Port", 3128, "a port", alert.IsOptional))

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	exp := map[string]map[string]interface{}{
		"secret": {
			"type":          "text",
			"human_name":    "Secret",
			"description":   "a secret",
			"default_value": "",
			"is_optional":   false,
			"attributes":    []interface{}{"is_password"},
			"position":      0.0,
		},
		"port": {
			"type":          "number",
			"human_name":    "Port",
			"description":   "a port",
			"default_value": 3128.0,
			"is_optional":   true,
			"attributes":    []interface{}{},
			"position":      1.0,
		},
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Errorf("unexpected JSON (-want +got):\n%s", diff)
	}
}

func TestLevel_RoundTrip(t *testing.T) {
	for _, s := range []string{"ok", "info", "Warning", "CRITICAL"} {
		l, err := alert.ParseLevel(s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if _, err := alert.ParseLevel(l.String()); err != nil {
			t.Errorf("%s: %v", l, err)
		}
	}
	for _, s := range []string{"", "WARN", "bogus", "OKINFO"} {
		if _, err := alert.ParseLevel(s); err == nil {
			t.Errorf("expected error parsing %q", s)
		}
	}
}
