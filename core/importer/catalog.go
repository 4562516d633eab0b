package importer

// competencyDescriptions describes the competency codes of the national curriculum sheets.
var competencyDescriptions = map[string]string{
	"1_matematicas_c1": "Resuelve problemas de cantidad",
	"1_matematicas_c2": "Resuelve problemas de regularidad, equivalencia y cambio",
	"1_matematicas_c3": "Resuelve problemas de forma, movimiento y localización",
	"1_matematicas_c4": "Resuelve problemas de gestión de datos e incertidumbre",

	"1_comunicacion_c1": "Se comunica oralmente en su lengua materna",
	"1_comunicacion_c2": "Lee diversos tipos de textos escritos en lengua materna",
	"1_comunicacion_c3": "Escribe diversos tipos de textos en lengua materna",

	"1_ingles_c1": "Se comunica oralmente en inglés como lengua extranjera",
	"1_ingles_c2": "Lee diversos tipos de textos escritos en inglés como lengua extranjera",
	"1_ingles_c3": "Escribe diversos tipos de textos en inglés como lengua extranjera",

	"1_arte_c1": "Aprecia de manera crítica manifestaciones artísticas",
	"1_arte_c2": "Crea proyectos desde los lenguajes artísticos",

	"1_sociales_c1": "Construye interpretaciones históricas",
	"1_sociales_c2": "Gestiona responsablemente el espacio y el ambiente",
	"1_sociales_c3": "Gestiona responsablemente los recursos económicos",

	"1_desarrollo_c1": "Construye su identidad",
	"1_desarrollo_c2": "Convive y participa democráticamente en la búsqueda del bien común",
	"1_Desarrollo personal, ciudadanía y cívica _c1": "Construye su identidad",
	"1_Desarrollo personal, ciudadanía y cívica _c2": "Convive y participa democráticamente en la búsqueda del bien común",

	"1_ef_c1": "Se desenvuelve de manera autónoma a través de su motricidad",
	"1_ef_c2": "Asume una vida saludable",
	"1_ef_c3": "Interactúa a través de sus habilidades sociomotrices",

	"1_religion_c1": "Construye su identidad como persona humana, amada por Dios, digna, libre y trascendente",
	"1_religion_c2": "Asume la experiencia del encuentro personal y comunitario con Dios",

	"1_ciencia_c1":              "Indaga mediante métodos científicos para construir conocimientos",
	"1_ciencia_c2":              "Explica el mundo físico basándose en conocimientos científicos",
	"1_ciencia_c3":              "Diseña y construye soluciones tecnológicas para resolver problemas",
	"1_Ciencia y tecnología_c1": "Competencia c1 de Ciencia Y Tecnología",
	"1_Ciencia y tecnología_c2": "Competencia c2 de Ciencia Y Tecnología",
	"1_Ciencia y tecnología_c3": "Competencia c3 de Ciencia Y Tecnología",

	"1_trabajo_c1": "Gestiona proyectos de emprendimiento económico o social",

	"1_quechua_c1": "Se comunica oralmente en quechua como segunda lengua",
	"1_quechua_c2": "Lee diversos tipos de textos escritos en quechua como segunda lengua",
	"1_quechua_c3": "Escribe diversos tipos de textos en quechua como segunda lengua",

	"1_tj":    "Competencia de trabajo y juventud",
	"1_tj_c1": "Competencia de trabajo y juventud",
	"1_tj_c2": "Competencia de trabajo y juventud",
}
