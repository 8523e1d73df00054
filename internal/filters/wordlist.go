package filters

import (
	"github.com/redactyl/sekret/internal/gibberish"
	"github.com/redactyl/sekret/internal/wordlist"
)

func wordlistModule() builtinModule {
	return builtinModule{
		"should_exclude_secret": simple([]string{"secret"}, secretPredicate(wordlist.ShouldExcludeSecret)),
	}
}

func gibberishModule() builtinModule {
	return builtinModule{
		"should_exclude_secret": simple([]string{"secret"}, secretPredicate(gibberish.ShouldExcludeSecret)),
	}
}
