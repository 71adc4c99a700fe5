package nav

// Default returns the notes site exactly as authored. Entry order is display
// order.
func Default() Site {
	return Site{
		Title:       "Vite Notes",
		Description: "A VitePress Site",
		Navigation: New(
			[]NavLink{
				NewLink("Home", "/"),
				NewLink("Core Java", "/core-java/"),
				NewLink("Python", "/python/"),
				NewLink("Data Structures", "/data-structures/"),
			},
			[]NavSection{
				NewSection("Core Java", true,
					NewLink("Introduction", "/core-java/"),
					NewLink("Java Language", "/core-java/m2-java-language"),
					NewLink("Java OOP", "/core-java/m3-java-oop"),
					NewLink("Java Lang", "/core-java/m4-java-lang"),
					NewLink("Exception Handling", "/core-java/M5.1-Exception-Handling"),
					NewLink("Exception Handling 2", "/core-java/M5.2-Exception-Handling"),
					NewLink("Exception Handling 3", "/core-java/M5.3-Exception-Handling"),
					NewLink("Multi Threading", "/core-java/M6-Multi-Threading"),
					NewLink("Java Util", "/core-java/M7-Java-Util"),
					NewLink("IO Streams", "/core-java/M8-IO-Streams"),
					NewLink("Enums & Annotations", "/core-java/M9-Enums-Annotations"),
				),
				NewSection("Python", true,
					NewLink("Introduction", "/python/"),
					NewLink("Core Python", "/python/core-python"),
				),
				NewSection("Data Structures", true,
					NewLink("Introduction", "/data-structures/"),
					NewLink("Leet Code", "/data-structures/leet-code"),
					NewLink("Test", "/data-structures/test"),
				),
				NewSection("Container", true,
					NewLink("Docker", "/container/docker.md"),
					NewLink("Kubernetes", "/container/kubernetes.md"),
				),
				NewSection("AI / ML", true,
					NewLink("Introduction", "/ai-ml/index.md"),
					NewLink("Machine Learning", "/ai-ml/Machine-Learning.md"),
					NewLink("Deep Learning", "/ai-ml/Deep-Learning.md"),
				),
				NewSection("System Design", true,
					NewLink("Introduction", "/system-design/"),
					NewLink("Backend", "/system-design/backend.md"),
					NewLink("Frontend", "/system-design/frontend.md"),
				),
				NewSection("German A1", true,
					NewLink("A1 Letters 1", "/german/A1-Letters-1.md"),
					NewLink("A1 Letters 2", "/german/A1-Letters-2.md"),
					NewLink("A1 Letters 3", "/german/A1-Letters-3.md"),
				),
			},
			[]NavLink{
				NewLink("github", "https://github.com/vuejs/vitepress"),
			},
		),
	}
}
