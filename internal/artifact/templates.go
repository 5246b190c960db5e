package artifact

// Bundle templates. The rendered output is a pure function of the scanner's
// branding and the configured base URL, so re-rendering with unchanged
// inputs produces byte-identical files.

const markupTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.BusinessName}} Security Scanner</title>
    {{- if .FaviconPath}}
    <link rel="icon" href="{{.FaviconPath}}">
    {{- end}}
    <link rel="stylesheet" href="{{.BaseURL}}/scanner/{{.ScannerUID}}/styles.css">
</head>
<body>
    <div class="scanner-container" id="leadshield-scanner">
        <div class="scanner-header">
            {{- if .LogoPath}}
            <img class="scanner-logo" src="{{.LogoPath}}" alt="{{.BusinessName}} logo">
            {{- end}}
            <h1 class="scanner-title">{{.BusinessName}} Security Scanner</h1>
            <p class="scanner-subtitle">Check your organisation's security posture in under a minute.</p>
        </div>
        <form id="scanner-form" class="scanner-form">
            <label for="target-url">Website or domain</label>
            <input type="text" id="target-url" name="targetUrl" placeholder="example.com" required>
            <label for="contact-name">Your name</label>
            <input type="text" id="contact-name" name="contactName" placeholder="Jane Doe">
            <label for="contact-email">Work email</label>
            <input type="email" id="contact-email" name="contactEmail" placeholder="jane@example.com" required>
            <button type="submit" class="scanner-button">Start Free Scan</button>
        </form>
        <div id="scanner-result" class="scanner-result" hidden></div>
    </div>
    <script src="{{.BaseURL}}/scanner/{{.ScannerUID}}/script.js"></script>
</body>
</html>
`

const embedSnippetTemplate = `<!-- {{.BusinessName}} security scanner embed -->
<iframe src="{{.BaseURL}}/scanner/{{.ScannerUID}}/embed"
        style="width:100%;max-width:640px;height:560px;border:none;"
        title="{{.BusinessName}} Security Scanner"></iframe>
`

const stylesTemplate = `/* Scanner styles for {{.ScannerUID}} */
.scanner-container {
    max-width: 600px;
    margin: 0 auto;
    padding: 2rem;
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    background: white;
    border-radius: 12px;
    box-shadow: 0 4px 20px rgba(0,0,0,0.1);
}

.scanner-header {
    text-align: center;
    margin-bottom: 2rem;
    padding-bottom: 1.5rem;
    border-bottom: 2px solid {{.PrimaryColor}};
}

.scanner-logo {
    max-height: 60px;
    margin-bottom: 1rem;
}

.scanner-title {
    color: {{.PrimaryColor}};
    font-size: 2rem;
    font-weight: 700;
    margin-bottom: 0.5rem;
}

.scanner-subtitle {
    color: {{.SecondaryColor}};
    font-size: 1rem;
}

.scanner-form label {
    display: block;
    margin: 1rem 0 0.25rem;
    color: {{.SecondaryColor}};
    font-weight: 600;
}

.scanner-form input {
    width: 100%;
    padding: 0.65rem 0.75rem;
    border: 1px solid #d0d5dd;
    border-radius: 8px;
    font-size: 1rem;
}

.scanner-button {
    width: 100%;
    margin-top: 1.5rem;
    padding: 0.75rem;
    background: {{.ButtonColor}};
    color: white;
    border: none;
    border-radius: 8px;
    font-size: 1.05rem;
    font-weight: 600;
    cursor: pointer;
}

.scanner-button:hover {
    filter: brightness(0.92);
}

.scanner-result {
    margin-top: 1.5rem;
    padding: 1rem;
    border-left: 4px solid {{.PrimaryColor}};
    background: #f8f9fc;
}
`

const scriptTemplate = `// Scanner widget for {{.ScannerUID}}
(function () {
    'use strict';

    var API_URL = '{{.BaseURL}}/scanner/{{.ScannerUID}}/scan';

    var form = document.getElementById('scanner-form');
    var result = document.getElementById('scanner-result');
    if (!form) {
        return;
    }

    form.addEventListener('submit', function (event) {
        event.preventDefault();

        var payload = {
            targetUrl: document.getElementById('target-url').value,
            contactName: document.getElementById('contact-name').value,
            contactEmail: document.getElementById('contact-email').value,
            scanTypes: []
        };

        result.hidden = false;
        result.textContent = 'Scanning…';

        fetch(API_URL, {
            method: 'POST',
            headers: { 'Content-Type': 'application/json' },
            body: JSON.stringify(payload)
        }).then(function (resp) {
            return resp.json();
        }).then(function (data) {
            if (data.status === 'error') {
                result.textContent = data.message;
                return;
            }
            result.textContent = 'Scan submitted. Reference: ' + data.scanId;
            form.reset();
        }).catch(function () {
            result.textContent = 'Something went wrong. Please try again.';
        });
    });
})();
`

const docsTemplate = `# {{.BusinessName}} Scanner API

Scanner ID: ` + "`{{.ScannerUID}}`" + `

## Submit a scan

` + "```" + `
POST {{.BaseURL}}/scanner/{{.ScannerUID}}/scan
Content-Type: application/json

{
  "targetUrl": "example.com",
  "contactEmail": "lead@example.com",
  "contactName": "Jane Doe",
  "scanTypes": ["email_security", "ssl_certificate"]
}
` + "```" + `

Returns ` + "`202`" + ` with ` + "`{\"status\": \"accepted\", \"scanId\": \"...\"}`" + ` on
success, or ` + "`400`" + ` with ` + "`{\"status\": \"error\", \"message\": \"...\"}`" + ` when the
target or contact email is missing or malformed. A validated submission
always yields a scan id, even when parts of the assessment cannot complete.

## Embed

` + "```html" + `
<iframe src="{{.BaseURL}}/scanner/{{.ScannerUID}}/embed"
        style="width:100%;max-width:640px;height:560px;border:none;"></iframe>
` + "```" + `
`
