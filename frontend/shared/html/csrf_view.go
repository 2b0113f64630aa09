package html

// CSRFFormScript injects a hidden _csrf field into every POST form, reading
// the token from the double-submit cookie.
func CSRFFormScript() string {
	return `<script>
(function () {
  function readToken() {
    const parts = document.cookie ? document.cookie.split(";") : [];
    for (const part of parts) {
      const c = part.trim();
      if (c.startsWith("csrf_token=")) return decodeURIComponent(c.slice("csrf_token=".length));
    }
    return "";
  }

  function inject() {
    const token = readToken();
    if (!token) return;
    document.querySelectorAll("form").forEach((form) => {
      const method = (form.getAttribute("method") || "GET").toUpperCase();
      if (method !== "POST") return;
      if (form.querySelector("input[name='_csrf']")) return;
      const input = document.createElement("input");
      input.type = "hidden";
      input.name = "_csrf";
      input.value = token;
      form.appendChild(input);
    });
  }

  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", inject);
  } else {
    inject();
  }
})();
</script>`
}
