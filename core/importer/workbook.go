package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// column names shared by every sheet
const (
	colNombre       = "nom"
	colGradoSeccion = "grado_seccion"
	colApreciacion  = "1_apreciacion_tutor"
	colCI           = "ci"

	conclusionSuffix = "_conclusion"
	notasSheet       = "notas"
)

var (
	intelSheetKeywords = []string{"inteligencia", "inteligencias", "intel", "multiple", "múltiple", "brain", "cerebro"}
	ciSheetKeywords    = []string{"ci", "coeficiente", "intelectual", "iq", "intelligence", "quotient"}
)

// sheet is a worksheet whose first row is the header.
type sheet struct {
	header []string
	rows   []map[string]string
}

func (s sheet) has(cols ...string) bool {
	for _, c := range cols {
		found := false
		for _, h := range s.header {
			if h == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func readSheet(f *excelize.File, name string) (sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return sheet{}, errors.Wrapf(err, "reading sheet %q", name)
	}
	if len(rows) == 0 {
		return sheet{header: []string{}}, nil
	}

	s := sheet{header: make([]string, len(rows[0]))}
	for i, h := range rows[0] {
		s.header[i] = strings.TrimSpace(h)
	}
	for _, raw := range rows[1:] {
		row := make(map[string]string, len(s.header))
		empty := true
		for i, h := range s.header {
			if h == "" || i >= len(raw) {
				continue
			}
			v := strings.TrimSpace(raw[i])
			row[h] = v
			if v != "" {
				empty = false
			}
		}
		if !empty {
			s.rows = append(s.rows, row)
		}
	}
	return s, nil
}

// detectSheet returns the first sheet whose lowercased name contains a keyword, skipping the excluded ones.
func detectSheet(sheets []string, keywords []string, exclude ...string) string {
	for _, s := range sheets {
		if isExcluded(s, exclude) {
			continue
		}
		lower := strings.ToLower(s)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return s
			}
		}
	}
	return ""
}

// detectCISheet prefers a sheet named exactly "ci"; "ci" is also a substring of "inteligencia".
func detectCISheet(sheets []string, intelSheet string) string {
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), colCI) {
			return s
		}
	}
	return detectSheet(sheets, ciSheetKeywords, intelSheet, notasSheet)
}

func isExcluded(name string, exclude []string) bool {
	for _, e := range exclude {
		if e != "" && strings.EqualFold(name, e) {
			return true
		}
	}
	return false
}

// competencyColumns lists the notas columns holding grades, in sheet order.
func competencyColumns(header []string) []string {
	cols := make([]string, 0, len(header))
	for _, h := range header {
		switch {
		case h == "", h == colGradoSeccion, h == colNombre, h == colApreciacion:
		case strings.Contains(h, conclusionSuffix), strings.HasPrefix(h, "Unnamed"):
		case len(strings.Split(h, "_")) < 2:
		default:
			cols = append(cols, h)
		}
	}
	return cols
}

// cursoOf extracts the course name from a competency code ("1_matematicas_c1" is "matematicas").
func cursoOf(code string) string {
	return strings.Split(code, "_")[1]
}

type intelScore struct {
	Nombre  string
	Tipo    string
	Puntaje float64
}

// workbook is the parsed content of an upload, before anything is stored.
type workbook struct {
	sheets       []string
	notas        sheet
	competencias []string
	intelSheet   string
	intelScores  []intelScore
	intelInfo    IntelInfo
	ciSheet      string
	ciByNombre   map[string]int
	ciInfo       CIInfo
}

func parseWorkbook(r io.Reader) (*workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	wb := &workbook{sheets: f.GetSheetList(), ciByNombre: make(map[string]int)}
	if !contains(wb.sheets, notasSheet) {
		return nil, fmt.Errorf("no se encontró la hoja '%s'", notasSheet)
	}
	if wb.notas, err = readSheet(f, notasSheet); err != nil {
		return nil, err
	}
	wb.competencias = competencyColumns(wb.notas.header)

	wb.intelSheet = detectSheet(wb.sheets, intelSheetKeywords, notasSheet)
	wb.intelInfo = IntelInfo{HojasDisponibles: wb.sheets, TiposEncontrados: []string{}}
	if err = wb.parseInteligencias(f); err != nil {
		return nil, err
	}

	wb.ciSheet = detectCISheet(wb.sheets, wb.intelSheet)
	if err = wb.parseCI(f); err != nil {
		return nil, err
	}
	return wb, nil
}

func (wb *workbook) parseInteligencias(f *excelize.File) error {
	info := &wb.intelInfo
	if wb.intelSheet == "" {
		info.ErrorMensaje = strPtr(fmt.Sprintf("No se pudo leer la hoja de inteligencias. Hojas disponibles: %v", wb.sheets))
		return nil
	}
	s, err := readSheet(f, wb.intelSheet)
	if err != nil {
		return err
	}
	info.HojaEncontrada = true
	info.HojaDetectada = strPtr(wb.intelSheet)
	if !s.has(colNombre, colGradoSeccion) {
		info.ErrorMensaje = strPtr(fmt.Sprintf(
			"La hoja '%s' no contiene las columnas requeridas '%s' y '%s'", wb.intelSheet, colNombre, colGradoSeccion))
		return nil
	}
	info.ColumnasRequeridas = true

	for _, h := range s.header {
		if h != "" && h != colNombre && h != colGradoSeccion && !strings.HasPrefix(h, "Unnamed") {
			info.TiposEncontrados = append(info.TiposEncontrados, h)
		}
	}
	if len(info.TiposEncontrados) == 0 {
		info.ErrorMensaje = strPtr("No se encontraron columnas de tipos de inteligencia válidas")
		return nil
	}

	alumnos := make(map[string]struct{})
	for _, row := range s.rows {
		nombre := row[colNombre]
		if nombre == "" {
			continue
		}
		for _, tipo := range info.TiposEncontrados {
			p, ok := parseNumber(row[tipo])
			if !ok {
				continue
			}
			wb.intelScores = append(wb.intelScores, intelScore{Nombre: nombre, Tipo: tipo, Puntaje: p})
			alumnos[nombre] = struct{}{}
		}
	}
	info.RegistrosValidos = len(wb.intelScores)
	info.AlumnosConInteligencias = len(alumnos)
	return nil
}

func (wb *workbook) parseCI(f *excelize.File) error {
	info := &wb.ciInfo
	if wb.ciSheet == "" {
		info.ErrorMensaje = strPtr(fmt.Sprintf("No se pudo leer la hoja de CI. Hojas disponibles: %v", wb.sheets))
		return nil
	}
	s, err := readSheet(f, wb.ciSheet)
	if err != nil {
		return err
	}
	info.HojaEncontrada = true
	info.HojaDetectada = strPtr(wb.ciSheet)
	if !s.has(colNombre, colCI) {
		info.ErrorMensaje = strPtr(fmt.Sprintf(
			"La hoja '%s' no contiene las columnas requeridas '%s' y '%s'", wb.ciSheet, colNombre, colCI))
		return nil
	}
	info.ColumnasRequeridas = true

	for _, row := range s.rows {
		v, ok := parseNumber(row[colCI])
		if !ok {
			continue
		}
		info.RegistrosValidos++
		nombre := row[colNombre]
		if _, seen := wb.ciByNombre[nombre]; !seen {
			wb.ciByNombre[nombre] = int(v)
		}
	}
	info.AlumnosConCI = len(wb.ciByNombre)
	return nil
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return v, err == nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }
