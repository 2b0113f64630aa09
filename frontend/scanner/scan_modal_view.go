package scanner

// RenderScanModal renders the scan dialog plus the script that drives the
// server-side scan session. A decoded code is written into the target input
// and a change event is dispatched so the page reacts as if typed.
func RenderScanModal() string {
	return `<div class="modal fade" id="scan-modal" tabindex="-1">
  <div class="modal-dialog modal-dialog-centered">
    <div class="modal-content">
      <div class="modal-header">
        <h5 class="modal-title"><i class="bi bi-upc-scan"></i> Escanear Código</h5>
        <button type="button" class="btn-close" data-bs-dismiss="modal"></button>
      </div>
      <div class="modal-body text-center">
        <div class="py-4"><i class="bi bi-upc-scan display-1 text-secondary"></i></div>
        <p id="scan-status" class="text-muted">Leitor parado</p>
      </div>
      <div class="modal-footer">
        <button type="button" id="scan-switch-btn" class="btn btn-outline-secondary d-none" onclick="switchScanDevice()">
          <i class="bi bi-arrow-repeat"></i> Alternar Leitor
        </button>
        <button type="button" class="btn btn-secondary" data-bs-dismiss="modal">Fechar</button>
      </div>
    </div>
  </div>
</div>
<script>
let scanTargetInput = null;
let scanPolling = false;

function setScanStatus(msg) {
  const el = document.getElementById("scan-status");
  if (el) el.textContent = msg;
}

function scanPost(path) {
  const cookie = document.cookie.split("; ").find((c) => c.startsWith("csrf_token="));
  const token = cookie ? decodeURIComponent(cookie.split("=")[1]) : "";
  return fetch(path, { method: "POST", headers: { "X-CSRF-Token": token } });
}

async function openScanModal(targetInputID) {
  scanTargetInput = document.getElementById(targetInputID);
  const modal = new bootstrap.Modal(document.getElementById("scan-modal"));
  modal.show();
  setScanStatus("Iniciando leitor...");
  try {
    const resp = await scanPost("/scanner/abrir");
    const data = await resp.json();
    if (!resp.ok) {
      setScanStatus(data.erro || "Leitor indisponível");
      return;
    }
    const switchBtn = document.getElementById("scan-switch-btn");
    if (switchBtn) switchBtn.classList.toggle("d-none", !data.alternar);
    setScanStatus("Aponte o leitor para o código de barras");
    pollForCode();
  } catch (err) {
    setScanStatus("Leitor indisponível");
  }
}

async function pollForCode() {
  if (scanPolling) return;
  scanPolling = true;
  try {
    while (scanPolling) {
      const resp = await fetch("/scanner/codigo");
      if (!resp.ok) break;
      const data = await resp.json();
      if (data.codigo) {
        if (scanTargetInput) {
          scanTargetInput.value = data.codigo;
          scanTargetInput.dispatchEvent(new Event("change", { bubbles: true }));
        }
        closeScanModal();
        return;
      }
    }
  } catch (err) {
    setScanStatus("Falha na leitura");
  } finally {
    scanPolling = false;
  }
}

async function switchScanDevice() {
  try {
    await scanPost("/scanner/alternar");
  } catch (err) {}
}

function closeScanModal() {
  scanPolling = false;
  scanPost("/scanner/fechar").catch(function () {});
  const el = document.getElementById("scan-modal");
  const modal = bootstrap.Modal.getInstance(el);
  if (modal) modal.hide();
  setScanStatus("Leitor parado");
}

document.getElementById("scan-modal").addEventListener("hidden.bs.modal", function () {
  scanPolling = false;
  scanPost("/scanner/fechar").catch(function () {});
});
</script>`
}
