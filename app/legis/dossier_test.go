package legis

import (
	"strings"
	"testing"
)

func TestDossierExtractor_Run_ValidHTML(t *testing.T) {
	extractor := NewDossierExtractor()

	htmlContent := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Expediente 121/000042</title>
	</head>
	<body>
		<header>
			<h1>Congreso de los Diputados</h1>
			<nav>Buscador de iniciativas</nav>
		</header>
		<main>
			<article>
				<h1>Proyecto de Ley por el derecho a la vivienda</h1>
				<p>Presentado el 01/02/2022, calificado el 08/02/2022. La iniciativa fue remitida a la Comisión de Transportes, Movilidad y Agenda Urbana para su tramitación con competencia legislativa plena.</p>
				<p>Comisión de Transportes desde el 10/03/2022 hasta el 20/04/2022. El plazo de presentación de enmiendas fue ampliado en tres ocasiones a petición de los grupos parlamentarios.</p>
				<p>Aprobado por el Pleno del Congreso en sesión celebrada con el voto favorable de la mayoría absoluta de la cámara, y remitido al Senado para la continuación del procedimiento legislativo.</p>
			</article>
		</main>
		<footer>
			<p>Aviso legal</p>
		</footer>
	</body>
	</html>
	`

	result, err := extractor.Run([]byte(htmlContent))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result == "" {
		t.Fatal("Expected non-empty extracted text")
	}
	if !strings.Contains(result, "Comisión de Transportes desde el 10/03/2022") {
		t.Errorf("Expected the procedural narrative in the extracted text")
	}
}

func TestStripDossierBoilerplate(t *testing.T) {
	input := strings.Join([]string{
		"Volver al listado",
		"Imprimir",
		"Presentado el 01/02/2022, calificado el 08/02/2022.",
		"",
		"  Comisión de Transportes desde el 10/03/2022 hasta el 20/04/2022.  ",
		"Aviso legal | Mapa web | Accesibilidad",
	}, "\n")

	result := stripDossierBoilerplate(input)

	if strings.Contains(result, "Volver al listado") || strings.Contains(result, "Aviso legal") {
		t.Errorf("Expected navigation chrome to be stripped, got %q", result)
	}
	if !strings.Contains(result, "Presentado el 01/02/2022") {
		t.Errorf("Expected procedural text to survive, got %q", result)
	}
	if !strings.Contains(result, "Comisión de Transportes desde el 10/03/2022 hasta el 20/04/2022.") {
		t.Errorf("Expected trimmed narrative line to survive, got %q", result)
	}
}

func TestStripDossierBoilerplate_KeepsLongLinesMentioningChrome(t *testing.T) {
	// A genuine narrative sentence that happens to contain a chrome word must
	// not be dropped; only short standalone chrome lines are.
	line := "El acuerdo de la Mesa sobre accesibilidad de los edificios fue publicado tras su aprobación el 15/06/2023."

	result := stripDossierBoilerplate(line)

	if result != line {
		t.Errorf("Expected the narrative line to survive, got %q", result)
	}
}

func TestDossierExtractor_Run_EmptyInput(t *testing.T) {
	extractor := NewDossierExtractor()

	if _, err := extractor.Run([]byte{}); err == nil {
		t.Error("Expected an error for empty input")
	}
	if _, err := extractor.Run(nil); err == nil {
		t.Error("Expected an error for nil input")
	}
}
