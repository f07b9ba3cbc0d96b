package views

import (
	"html/template"

	"github.com/mmynk/billed/internal/format"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/routes"
)

var funcs = template.FuncMap{
	"displayDate": func(b models.Bill) string {
		if b.DisplayDate != "" {
			return b.DisplayDate
		}
		return b.Date
	},
	"displayStatus": func(b models.Bill) string {
		if b.DisplayStatus != "" {
			return b.DisplayStatus
		}
		return format.Status(b.Status)
	},
	"amount": format.Amount,
	"path":   func(p routes.Path) string { return p.String() },
	"invalid": func(invalid map[string]bool, field string) bool {
		return invalid[field]
	},
	"value": func(values map[string]string, field string) string {
		return values[field]
	},
}

var pages = template.Must(template.New("pages").Funcs(funcs).Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Billed</title>
<style>
  body { margin: 0; font-family: sans-serif; color: #1f1f1f; background: #f5f6fa; }
  .layout { display: flex; min-height: 100vh; }
  .vertical-navbar { width: 80px; background: #0e5ae5; display: flex; flex-direction: column; align-items: center; padding-top: 24px; gap: 24px; }
  .vertical-navbar a, .vertical-navbar button { color: #c3d5fa; text-decoration: none; background: none; border: 0; cursor: pointer; font-size: 0.8rem; }
  .vertical-navbar .active-icon { color: #fff; font-weight: bold; }
  .content { flex: 1; padding: 32px; }
  table { width: 100%; border-collapse: collapse; background: #fff; }
  th, td { padding: 8px 12px; border-bottom: 1px solid #e0e0e0; text-align: left; }
  .is-invalid { border-color: #c0392b; }
  .error { color: #c0392b; }
  .modal { position: fixed; inset: 0; background: rgba(0,0,0,0.5); display: flex; align-items: center; justify-content: center; }
  .modal-content { background: #fff; padding: 16px; }
</style>
</head>
<body>
<div id="root">{{end}}

{{define "foot"}}</div>
</body>
</html>{{end}}

{{define "vertical"}}<nav class="vertical-navbar" data-testid="vertical-navbar">
  <div class="layout-title">Billed</div>
  <a href="{{path .Bills}}" id="layout-icon1" data-testid="icon-window"{{if eq .Active .Bills}} class="active-icon"{{end}}>Notes</a>
  <a href="{{path .NewBill}}" id="layout-icon2" data-testid="icon-mail"{{if eq .Active .NewBill}} class="active-icon"{{end}}>Nouvelle</a>
  <form method="post" action="/logout">
    <button type="submit" id="layout-disconnect" data-testid="layout-disconnect">Déconnexion</button>
  </form>
</nav>{{end}}

{{define "bills"}}{{template "head"}}
<div class="layout">
  {{template "vertical" .Nav}}
  <div class="content">
    <div class="content-header">
      <div class="content-title">Mes notes de frais</div>
      <form method="post" action="/employee/bills/new">
        <button type="submit" data-testid="btn-new-bill" class="btn btn-primary">Nouvelle note de frais</button>
      </form>
    </div>
    <div id="data-table">
      <table id="example">
        <thead>
          <tr><th>Type</th><th>Nom</th><th>Date</th><th>Montant</th><th>Statut</th><th>Actions</th></tr>
        </thead>
        <tbody data-testid="tbody">
        {{range .Bills}}
          <tr>
            <td>{{.Type}}</td>
            <td>{{.Name}}</td>
            <td>{{displayDate .}}</td>
            <td>{{amount .Amount .Currency}}</td>
            <td>{{displayStatus .}}</td>
            <td>
              <a href="?preview={{.ID}}" data-testid="icon-eye" data-bill-url="{{.FileURL}}">Voir</a>
            </td>
          </tr>
        {{end}}
        </tbody>
      </table>
    </div>
  </div>
</div>
{{with .Preview}}
<div class="modal" id="modaleFile" data-testid="modaleFile" role="dialog">
  <div class="modal-content">
    <div class="modal-header">
      <h5 class="modal-title">Justificatif</h5>
      <a href="{{path $.Nav.Bills}}" class="close" data-testid="modal-close">&times;</a>
    </div>
    <div class="bill-proof-container">
      <img width="{{.Width}}" src="{{.URL}}" alt="Bill">
    </div>
  </div>
</div>
{{end}}
{{template "foot"}}{{end}}

{{define "newbill"}}{{template "head"}}
<div class="layout">
  {{template "vertical" .Nav}}
  <div class="content">
    <div class="content-header">
      <div class="content-title">Envoyer une note de frais</div>
    </div>
    <div class="form-newbill-container content-inner">
      <form method="post" action="{{path .Nav.NewBill}}" enctype="multipart/form-data" data-testid="form-new-bill" novalidate>
        <div class="col-md-6">
          <label for="expense-type">Type de dépense</label>
          <select required name="expense-type" class="form-control blue-border" data-testid="expense-type">
          {{$selected := value .Values "expense-type"}}
          {{range .ExpenseTypes}}
            <option{{if eq . $selected}} selected{{end}}>{{.}}</option>
          {{end}}
          </select>
          <label for="expense-name">Nom de la dépense</label>
          <input type="text" name="expense-name" class="form-control blue-border" data-testid="expense-name" placeholder="Vol Paris Londres" value="{{value .Values "expense-name"}}">
          <label for="datepicker">Date</label>
          <input required type="date" name="datepicker" class="form-control blue-border{{if invalid .Invalid "datepicker"}} is-invalid{{end}}" data-testid="datepicker" value="{{value .Values "datepicker"}}"{{if invalid .Invalid "datepicker"}} aria-invalid="true"{{end}}>
          <label for="amount">Montant TTC</label>
          <input required type="number" step="any" min="0" name="amount" class="form-control blue-border{{if invalid .Invalid "amount"}} is-invalid{{end}}" data-testid="amount" placeholder="348" value="{{value .Values "amount"}}"{{if invalid .Invalid "amount"}} aria-invalid="true"{{end}}>
          <label for="vat">TVA</label>
          <input type="number" step="any" min="0" name="vat" class="form-control blue-border{{if invalid .Invalid "vat"}} is-invalid{{end}}" data-testid="vat" placeholder="70" value="{{value .Values "vat"}}"{{if invalid .Invalid "vat"}} aria-invalid="true"{{end}}>
          <input required type="number" min="0" max="100" name="pct" class="form-control blue-border{{if invalid .Invalid "pct"}} is-invalid{{end}}" data-testid="pct" placeholder="20" value="{{value .Values "pct"}}"{{if invalid .Invalid "pct"}} aria-invalid="true"{{end}}>
        </div>
        <div class="col-md-6">
          <label for="commentary">Commentaire</label>
          <textarea class="form-control blue-border" name="commentary" data-testid="commentary" rows="3">{{value .Values "commentary"}}</textarea>
          <label for="file">Justificatif</label>
          <input type="file" name="file" accept=".jpg,.jpeg,.png" class="form-control blue-border" data-testid="file">
          {{with .FileName}}<span data-testid="file-name">{{.}}</span>{{end}}
          {{if .FileRejected}}<span class="error" data-testid="file-error">Seuls les fichiers jpg, jpeg et png sont acceptés</span>{{end}}
        </div>
        <button type="submit" id="btn-send-bill" class="btn btn-primary">Envoyer</button>
      </form>
    </div>
  </div>
</div>
{{template "foot"}}{{end}}

{{define "dashboard"}}{{template "head"}}
<div class="layout">
  <nav class="vertical-navbar" data-testid="vertical-navbar">
    <div class="layout-title">Billed</div>
    <a href="{{path .Path}}" class="active-icon" data-testid="icon-dashboard">Validations</a>
    <form method="post" action="/logout">
      <button type="submit" data-testid="layout-disconnect">Déconnexion</button>
    </form>
  </nav>
  <div class="content">
    <div class="content-title">Validations</div>
    {{range .Groups}}
    <section class="status-bills" data-testid="status-bills-{{.Status}}">
      <h3>{{.Label}} ({{.Total.Count}})</h3>
      <p data-testid="total-{{.Status}}">Total {{amount .Total.Amount ""}} dont TVA {{amount .Total.VAT ""}}</p>
      {{range .Bills}}
      <div class="bill-card" id="open-bill{{.ID}}" data-testid="open-bill{{.ID}}">
        <span>{{.Email}}</span>
        <span>{{.Name}}</span>
        <span>{{displayDate .}}</span>
        <span>{{amount .Amount .Currency}}</span>
        <span>{{.Type}}</span>
        {{with .FileURL}}<a href="{{.}}" data-testid="icon-eye-d">Justificatif</a>{{end}}
        {{if eq .Status "pending"}}
        <form method="post" action="{{path $.Path}}/{{.ID}}">
          <textarea name="commentAdmin" data-testid="commentary2"></textarea>
          <button type="submit" name="action" value="accept" data-testid="btn-accept-bill">Accepter</button>
          <button type="submit" name="action" value="refuse" data-testid="btn-refuse-bill">Refuser</button>
        </form>
        {{else}}
        <span data-testid="comment-admin">{{.CommentAdmin}}</span>
        {{end}}
      </div>
      {{end}}
    </section>
    {{end}}
  </div>
</div>
{{template "foot"}}{{end}}

{{define "login"}}{{template "head"}}
<div class="content login">
  <h1>Billed</h1>
  {{with .Error}}<div class="error" data-testid="login-error">{{.}}</div>{{end}}
  <form method="post" action="/" data-testid="form-employee">
    <h2>Employé</h2>
    <input type="hidden" name="type" value="Employee">
    <label for="employee-email-input">Votre email</label>
    <input type="email" name="email" data-testid="employee-email-input" placeholder="johndoe@email.com" required value="{{.Email}}">
    <label for="employee-password-input">Mot de passe</label>
    <input type="password" name="password" data-testid="employee-password-input" placeholder="******" required>
    <button type="submit" data-testid="employee-login-button">Se connecter</button>
  </form>
  <form method="post" action="/" data-testid="form-admin">
    <h2>Administration</h2>
    <input type="hidden" name="type" value="Admin">
    <label for="admin-email-input">Votre email</label>
    <input type="email" name="email" data-testid="admin-email-input" placeholder="johndoe@email.com" required>
    <label for="admin-password-input">Mot de passe</label>
    <input type="password" name="password" data-testid="admin-password-input" placeholder="******" required>
    <button type="submit" data-testid="admin-login-button">Valider</button>
  </form>
</div>
{{template "foot"}}{{end}}

{{define "error"}}{{template "head"}}
<div class="layout">
  <div class="content">
    <div class="content-title">Erreur</div>
    <div data-testid="error-message">{{.}}</div>
  </div>
</div>
{{template "foot"}}{{end}}

{{define "loading"}}{{template "head"}}
<div class="layout">
  <div class="content" id="loading">Loading...</div>
</div>
{{template "foot"}}{{end}}
`))
