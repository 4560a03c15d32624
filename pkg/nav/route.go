// Package nav keeps the active portal view, the address-bar hash and the
// in-app back stack consistent with each other.
//
// A Route is the (view, topic) pair the portal is showing. It is parsed
// from and serialised to a URL fragment of the form
//
//	#<view>[?topic=<query-escaped topic>]
//
// Parsing never fails: anything unrecognised resolves to the welcome view.
package nav

import (
	"net/url"
	"strings"
)

// View names one top-level portal screen.
type View string

const (
	ViewWelcome      View = "welcome"
	ViewDashboard    View = "dashboard"
	ViewChat         View = "chat"
	ViewExperts      View = "experts"
	ViewAdmin        View = "admin"
	ViewLogin        View = "login"
	ViewSignup       View = "signup"
	ViewPremiumLogin View = "premium-login"
)

// DefaultView is used for empty and unrecognised hashes.
const DefaultView = ViewWelcome

// Views lists every recognised view in sidebar order.
var Views = []View{
	ViewWelcome,
	ViewDashboard,
	ViewChat,
	ViewExperts,
	ViewAdmin,
	ViewLogin,
	ViewSignup,
	ViewPremiumLogin,
}

// AppViews are the views rendered inside the authenticated shell.
var AppViews = []View{ViewWelcome, ViewDashboard, ViewChat, ViewExperts, ViewAdmin}

// Valid reports whether v is one of the recognised views.
func (v View) Valid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// InApp reports whether v is rendered inside the authenticated shell.
func (v View) InApp() bool {
	for _, known := range AppViews {
		if v == known {
			return true
		}
	}
	return false
}

// Title returns the label shown in the sidebar and header.
func (v View) Title() string {
	switch v {
	case ViewWelcome:
		return "Välkommen"
	case ViewDashboard:
		return "Översikt"
	case ViewChat:
		return "Chatt"
	case ViewExperts:
		return "Experter"
	case ViewAdmin:
		return "Admin"
	case ViewLogin:
		return "Logga in"
	case ViewSignup:
		return "Bli medlem"
	case ViewPremiumLogin:
		return "Premium"
	default:
		return string(v)
	}
}

// Route is a (view, topic) pair. An empty Topic means no topic.
type Route struct {
	View  View
	Topic string
}

// Home is the route every fresh session starts from.
var Home = Route{View: DefaultView}

// Hash serialises r into a URL fragment.
func (r Route) Hash() string {
	view := r.View
	if !view.Valid() {
		view = DefaultView
	}
	if r.Topic == "" {
		return "#" + string(view)
	}
	return "#" + string(view) + "?topic=" + url.QueryEscape(r.Topic)
}

func (r Route) String() string {
	return r.Hash()
}

// Parse maps a URL fragment to a Route. The leading '#' is optional.
//
// An empty view token keeps a parsed topic ("#?topic=x"); an unrecognised
// token resolves to the default view without a topic. A topic with broken
// percent-encoding is kept verbatim.
func Parse(hash string) Route {
	hash = strings.TrimPrefix(hash, "#")
	token, query, _ := strings.Cut(hash, "?")

	view := View(token)
	if token != "" && !view.Valid() {
		return Home
	}
	if token == "" {
		view = DefaultView
	}
	return Route{View: view, Topic: topicParam(query)}
}

func topicParam(query string) string {
	for _, pair := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key != "topic" {
			continue
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			return value
		}
		return decoded
	}
	return ""
}
