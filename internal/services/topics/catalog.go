package topics

// ThemeGroup is a named group of concrete category prompts
type ThemeGroup struct {
	Name    string
	Prompts []string
}

// catalog is the built-in set of theme groups. Prompts are the literal
// category seeds sent to the content provider.
var catalog = []ThemeGroup{
	{
		Name: "Geografía y Lugares",
		Prompts: []string{
			"Una capital europea",
			"Una capital de Sudamérica",
			"Un país grande",
			"Un país pequeño",
			"Un lugar para una cita",
			"Algo que hay en la playa",
			"Algo que hay en un museo",
			"Algo que hay en un parque",
			"Algo que hay en una oficina",
		},
	},
	{
		Name: "Animales",
		Prompts: []string{
			"Un animal que se puede ordeñar",
			"Un animal que pone huevos",
			"Un animal acuático",
			"Un animal salvaje",
			"Una mascota",
			"Un animal grande",
			"Un animal pequeño",
			"Algo con alas",
		},
	},
	{
		Name: "Comida y Bebida",
		Prompts: []string{
			"Un sabor de helado",
			"Una comida frita",
			"Una bebida caliente",
			"Una bebida fría",
			"Algo que se come con cuchara",
			"Algo que se come con las manos",
			"Una comida saludable",
			"Un ingrediente de pizza",
			"Un alimento de desayuno",
		},
	},
	{
		Name: "Objetos y Cosas",
		Prompts: []string{
			"Un instrumento musical",
			"Algo pegajoso",
			"Una prenda de ropa",
			"Algo mojado",
			"Un mueble",
			"Un medio de transporte",
			"Algo frío",
			"Algo caliente",
			"Algo con ruedas",
		},
	},
	{
		Name: "Naturaleza y Cuerpo",
		Prompts: []string{
			"Una flor",
			"Un fenómeno meteorológico",
			"Una parte del cuerpo",
			"Un color de ojos",
		},
	},
	{
		Name: "Sociedad y Personas",
		Prompts: []string{
			"Un saludo",
			"Una profesión",
			"Un idioma",
			"Un miembro de la familia",
			"Una asignatura escolar",
			"Un deporte",
			"Una emoción",
		},
	},
	{
		Name: "Colores",
		Prompts: []string{
			"Un color",
			"Algo azul",
			"Algo rojo",
			"Algo verde",
			"Algo amarillo",
			"Algo naranja",
			"Algo morado",
		},
	},
	{
		Name: "Hogar",
		Prompts: []string{
			"Algo que hay en el baño",
			"Algo que hay en el dormitorio",
		},
	},
}
