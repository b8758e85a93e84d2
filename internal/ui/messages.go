package ui

// User-facing strings. The page is rendered for the de-AT locale only.
const (
	msgLoading         = "Lade …"
	msgNoPosts         = "Keine Artikel gefunden."
	msgPostsError      = "Fehler beim Laden der Artikel."
	msgNoComments      = "Noch keine Kommentare."
	msgCommentsError   = "Fehler beim Laden der Kommentare."
	msgNoFinds         = "Noch keine Einträge."
	msgFindsError      = "Fehler beim Laden der Fundgrube."
	msgNoChat          = "Noch keine Nachrichten."
	msgChatError       = "Fehler beim Laden."
	msgChatSession     = "Session abgelaufen. Bitte neu laden."
	msgSessionExpired  = "Session abgelaufen. Bitte neu einloggen."
	msgSaveFailed      = "Fehler beim Speichern."
	msgSendFailed      = "Fehler beim Senden."
	titleUntitled      = "(ohne Titel)"
	titleComments      = "Kommentare"
	sourceUnknown      = "unbekannt"
	authorUnknown      = "Unbekannt"
	labelLike          = "+100"
	labelLiked         = "Geliked"
	labelReload        = "Liste aktualisieren"
	labelReloading     = "Aktualisiere …"
	statusFormat       = "%d Artikel · %d Fundgrube"
	commentBadgeFormat = "%d Kommentare"
)

// LoginPath is where a session-expired write sends the user.
const LoginPath = "/login"
