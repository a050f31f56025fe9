package autofill

import "PassVault/internal/agent/dom"

// Приоритетные списки селекторов, не привязанные к конкретным сайтам:
// сначала явные autocomplete-атрибуты, затем распространённые эвристики
// по name/type.

// LoginQueries — поле логина/идентификатора.
var LoginQueries = []dom.Query{
	{Attr: "autocomplete", Value: "username"},
	{Attr: "name", Value: "user", Substring: true},
	{Attr: "name", Value: "login", Substring: true},
	{Attr: "name", Value: "email", Substring: true},
	{Attr: "type", Value: "email"},
	{Attr: "name", Value: "text"},
}

// PasswordQueries — поле пароля.
var PasswordQueries = []dom.Query{
	{Attr: "autocomplete", Value: "current-password"},
	{Attr: "name", Value: "password"},
	{Attr: "type", Value: "password"},
}
