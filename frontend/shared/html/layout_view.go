package html

import "fmt"

// RenderLayout wraps a page body with the document shell. Bootstrap and the
// icon font come from CDN so the binary serves no static assets.
func RenderLayout(title, body string) string {
	return fmt.Sprintf(`<!doctype html><html lang="pt-BR"><head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap-icons@1.11.3/font/bootstrap-icons.min.css">
</head><body class="bg-light">%s
<script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>
%s</body></html>`, title, body, CSRFFormScript())
}
