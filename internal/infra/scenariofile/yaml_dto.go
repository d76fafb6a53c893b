package scenariofile

type yamlTable struct {
	Cycles    *int           `yaml:"cycles"`
	Defaults  yamlInputs     `yaml:"defaults"`
	Scenarios []yamlScenario `yaml:"scenarios"`
}

type yamlInputs struct {
	Tokens    *float64 `yaml:"tokens"`
	PriorWork *float64 `yaml:"prior_work"`
	Rate      *float64 `yaml:"rate"`
	AdminComp *float64 `yaml:"admin_comp"`
}

type yamlScenario struct {
	Name       string `yaml:"name"`
	yamlInputs `yaml:",inline"`
}
