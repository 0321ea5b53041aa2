package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"idle-battle-sim/internal/config"
)

func main() {
	var configDir string
	flag.StringVar(&configDir, "config-dir", "", "Config directory to validate (empty = embedded defaults)")
	flag.Parse()

	cfg, err := config.Env{ConfigDir: configDir}.LoadConfig()
	if err != nil {
		log.Fatalf("config invalid: %v", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		log.Fatalf("config invalid: %v", err)
	}
	for _, name := range reg.ProfessionNames() {
		if _, err := reg.Module(name, cfg.Perks()); err != nil {
			log.Fatalf("profession %s invalid: %v", name, err)
		}
		kit, _, _ := reg.Kit(name)
		fmt.Printf("Profession '%s' validated: %d buffs, %d skills\n", name, len(kit.Buffs), len(kit.Skills))
	}

	source := configDir
	if source == "" {
		source = "embedded defaults"
	}
	fmt.Printf("Enemies: %s\n", strings.Join(reg.EnemyIDs(), ", "))
	fmt.Printf("Groups: %s\n", strings.Join(reg.GroupIDs(), ", "))
	fmt.Printf("Config validated successfully (source: %s)\n", source)
}
