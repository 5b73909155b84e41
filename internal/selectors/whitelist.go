package selectors

// ariaRoleWhitelist is the closed set of ARIA roles a byRole selector may
// target (spec §4.E validation filter: "byRole values must pass an
// ARIA-role whitelist (~75 roles)"). Kept as a set literal rather than a
// generated list since the roles rarely change and a literal is easy to
// audit against the WAI-ARIA spec.
var ariaRoleWhitelist = map[string]bool{
	"alert": true, "alertdialog": true, "application": true, "article": true,
	"banner": true, "blockquote": true, "button": true, "caption": true,
	"cell": true, "checkbox": true, "code": true, "columnheader": true,
	"combobox": true, "complementary": true, "contentinfo": true, "definition": true,
	"deletion": true, "dialog": true, "directory": true, "document": true,
	"emphasis": true, "feed": true, "figure": true, "form": true,
	"generic": true, "grid": true, "gridcell": true, "group": true,
	"heading": true, "img": true, "insertion": true, "link": true,
	"list": true, "listbox": true, "listitem": true, "log": true,
	"main": true, "marquee": true, "math": true, "menu": true,
	"menubar": true, "menuitem": true, "menuitemcheckbox": true, "menuitemradio": true,
	"meter": true, "navigation": true, "none": true, "note": true,
	"option": true, "paragraph": true, "presentation": true, "progressbar": true,
	"radio": true, "radiogroup": true, "region": true, "row": true,
	"rowgroup": true, "rowheader": true, "scrollbar": true, "search": true,
	"searchbox": true, "separator": true, "slider": true, "spinbutton": true,
	"status": true, "strong": true, "subscript": true, "superscript": true,
	"switch": true, "tab": true, "table": true, "tablist": true,
	"tabpanel": true, "term": true, "textbox": true, "time": true,
	"timer": true, "toolbar": true, "tooltip": true, "tree": true,
	"treegrid": true, "treeitem": true,
}

// ValidRole reports whether role is in the ARIA role whitelist.
func ValidRole(role string) bool {
	return ariaRoleWhitelist[role]
}

// selectorKinds is the closed tagged union of selector kinds from spec §3.
var selectorKinds = map[string]bool{
	"byRole": true, "byLabel": true, "byTestId": true, "byPlaceholder": true,
	"byText": true, "byTitle": true, "byAltText": true,
	"cssLocator": true, "xpathLocator": true,
}

func validKind(kind string) bool {
	return selectorKinds[kind]
}
