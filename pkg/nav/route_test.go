package nav

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want Route
	}{
		{name: "empty", hash: "", want: Route{View: ViewWelcome}},
		{name: "bare hash", hash: "#", want: Route{View: ViewWelcome}},
		{name: "unknown token", hash: "#unknown-token", want: Route{View: ViewWelcome}},
		{name: "unknown token drops topic", hash: "#nope?topic=x", want: Route{View: ViewWelcome}},
		{name: "view only", hash: "#dashboard", want: Route{View: ViewDashboard}},
		{name: "no leading hash", hash: "experts", want: Route{View: ViewExperts}},
		{name: "premium login", hash: "#premium-login", want: Route{View: ViewPremiumLogin}},
		{name: "topic", hash: "#chat?topic=self-care", want: Route{View: ViewChat, Topic: "self-care"}},
		{name: "encoded topic", hash: "#chat?topic=s%C3%B6mn+%26+vila", want: Route{View: ViewChat, Topic: "sömn & vila"}},
		{name: "topic without view", hash: "#?topic=intro", want: Route{View: ViewWelcome, Topic: "intro"}},
		{name: "malformed encoding", hash: "#chat?topic=100%zz", want: Route{View: ViewChat, Topic: "100%zz"}},
		{name: "empty topic", hash: "#chat?topic=", want: Route{View: ViewChat}},
		{name: "other params", hash: "#chat?ref=mail&topic=a", want: Route{View: ViewChat, Topic: "a"}},
		{name: "no topic param", hash: "#chat?ref=mail", want: Route{View: ViewChat}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.hash); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.hash, got, tt.want)
			}
		})
	}
}

func TestParseIsPure(t *testing.T) {
	const hash = "#experts?topic=%C3%A5ngest"
	first := Parse(hash)
	second := Parse(hash)
	if first != second {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestRouteRoundTrip(t *testing.T) {
	topics := []string{"", "intro", "self-care", "sömn & vila", "a b", "100%", "x?topic=y", "#hash", "ä/ö=å"}
	for _, view := range Views {
		for _, topic := range topics {
			r := Route{View: view, Topic: topic}
			if got := Parse(r.Hash()); got != r {
				t.Errorf("Parse(%q) = %+v, want %+v", r.Hash(), got, r)
			}
		}
	}
}

func TestRouteHash(t *testing.T) {
	tests := []struct {
		route Route
		want  string
	}{
		{Route{View: ViewChat}, "#chat"},
		{Route{View: ViewChat, Topic: "intro"}, "#chat?topic=intro"},
		{Route{View: ViewChat, Topic: "a b"}, "#chat?topic=a+b"},
		{Route{View: "bogus"}, "#welcome"},
	}
	for _, tt := range tests {
		if got := tt.route.Hash(); got != tt.want {
			t.Errorf("Hash(%+v) = %q, want %q", tt.route, got, tt.want)
		}
	}
}

func TestViewSets(t *testing.T) {
	for _, v := range AppViews {
		if !v.Valid() || !v.InApp() {
			t.Errorf("expected %q to be a valid app view", v)
		}
	}
	for _, v := range []View{ViewLogin, ViewSignup, ViewPremiumLogin} {
		if v.InApp() {
			t.Errorf("expected %q to be outside the app shell", v)
		}
	}
	if View("nope").Valid() {
		t.Error("expected unknown view to be invalid")
	}
}
