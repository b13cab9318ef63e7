package reader

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	FontSizeCookie   = "mstories_font_size"
	LineHeightCookie = "mstories_line_height"
	FontFamilyCookie = "mstories_font_family"
	BackgroundCookie = "mstories_bg"
)

// CookiePath scopes preference cookies to one story's chapters.
func CookiePath(storyID string) string {
	return "/read/" + url.PathEscape(storyID)
}

// PreferenceCookies carries prefs to the next chapter of the same story.
// They are session cookies: nothing outlives the browsing session.
func PreferenceCookies(storyID string, prefs Preferences) []http.Cookie {
	values := []struct{ name, value string }{
		{FontSizeCookie, strconv.Itoa(prefs.FontSize)},
		{LineHeightCookie, strconv.FormatFloat(prefs.LineHeight, 'f', 1, 64)},
		{FontFamilyCookie, string(prefs.FontFamily)},
		{BackgroundCookie, string(prefs.BackgroundMode)},
	}

	cookies := make([]http.Cookie, 0, len(values))
	for _, v := range values {
		cookies = append(cookies, http.Cookie{
			Name:     v.name,
			Value:    v.value,
			Path:     CookiePath(storyID),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return cookies
}

// PreferencesFromCookies reads the session's preferences. Values that do not
// parse keep their defaults; numbers are clamped when the session opens.
func PreferencesFromCookies(r *http.Request) Preferences {
	prefs := DefaultPreferences()

	if c, err := r.Cookie(FontSizeCookie); err == nil {
		if v, err := strconv.Atoi(c.Value); err == nil {
			prefs.FontSize = v
		}
	}
	if c, err := r.Cookie(LineHeightCookie); err == nil {
		if v, err := strconv.ParseFloat(c.Value, 64); err == nil {
			prefs.LineHeight = v
		}
	}
	if c, err := r.Cookie(FontFamilyCookie); err == nil {
		if f, err := ParseFontFamily(c.Value); err == nil {
			prefs.FontFamily = f
		}
	}
	if c, err := r.Cookie(BackgroundCookie); err == nil {
		if m, err := ParseBackgroundMode(c.Value); err == nil {
			prefs.BackgroundMode = m
		}
	}
	return prefs
}
