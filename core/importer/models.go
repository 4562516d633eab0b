package importer

type (
	IntelInfo struct {
		Procesadas              int      `json:"procesadas"`
		HojaEncontrada          bool     `json:"hoja_encontrada"`
		HojaDetectada           *string  `json:"hoja_detectada"`
		HojasDisponibles        []string `json:"hojas_disponibles"`
		ColumnasRequeridas      bool     `json:"columnas_requeridas"`
		TiposEncontrados        []string `json:"tipos_encontrados"`
		RegistrosValidos        int      `json:"registros_validos"`
		AlumnosConInteligencias int      `json:"alumnos_con_inteligencias"`
		ErrorMensaje            *string  `json:"error_mensaje"`
	}

	CIInfo struct {
		HojaEncontrada     bool    `json:"hoja_encontrada"`
		HojaDetectada      *string `json:"hoja_detectada"`
		ColumnasRequeridas bool    `json:"columnas_requeridas"`
		RegistrosValidos   int     `json:"registros_validos"`
		AlumnosConCI       int     `json:"alumnos_con_ci"`
		ErrorMensaje       *string `json:"error_mensaje"`
	}

	// Result reports what an import did.
	Result struct {
		Mensaje                string    `json:"mensaje"`
		AlumnosProcesados      int       `json:"alumnos_procesados"`
		AlumnosCreados         int       `json:"alumnos_creados"`
		AlumnosActualizados    int       `json:"alumnos_actualizados"`
		CompetenciasProcesadas int       `json:"competencias_procesadas"`
		CursosProcesados       int       `json:"cursos_procesados"`
		Inteligencias          IntelInfo `json:"inteligencias"`
		CI                     CIInfo    `json:"ci"`
	}
)
